package entity

import "time"

type Customer struct {
	ID        int64      `json:"id"`
	Name      *string    `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	Country   *string    `json:"country"`
	Address   *string    `json:"address"`
	ZIP       *string    `json:"zip"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

func (c Customer) Key() int64 { return c.ID }

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
