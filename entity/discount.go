package entity

import "time"

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Discount backs both the discount and the promo routes.
type Discount struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	Value       int        `json:"value"`
	Type        string     `json:"type"`
	UsageLimit  int        `json:"usage_limit"`
	UsageCount  int        `json:"usage_count"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

func (d Discount) Key() int64 { return d.ID }

// IsValid reports whether the code can be redeemed at now: active, started,
// not ended and below its usage limit. A zero limit means unlimited.
func (d Discount) IsValid(now time.Time) bool {
	return d.IsActive &&
		d.StartsAt.Before(now) &&
		(d.EndsAt == nil || d.EndsAt.After(now)) &&
		(d.UsageLimit == 0 || d.UsageCount < d.UsageLimit)
}
