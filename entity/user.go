package entity

import "time"

// Role values used by the platform.
const (
	RoleAdmin   = "Admin"
	RoleOwner   = "Owner"
	RoleManager = "Manager"
)

// User is a platform (dashboard) user, distinct from a shop Customer.
// It is also the session user returned by /admin/me.
type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Name      *string    `json:"name"`
	AvatarURL string     `json:"avatar_url"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

func (u User) Key() int64 { return u.ID }

// DisplayName falls back to the email when no name is set.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}
