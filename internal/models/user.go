package models

import "time"

// Role names as exposed by the assessment service.
const (
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
)

// Role describes a user's capability level.
type Role struct {
	ID          int    `json:"id"`
	RoleName    string `json:"role_name"`
	Description string `json:"description,omitempty"`
}

// User is a user record as returned by the assessment service.
type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Fullname  string     `json:"fullname"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Role      *Role      `json:"role,omitempty"`
}

// RoleName returns the user's role name or the empty string when no role is
// assigned.
func (u *User) RoleName() string {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.RoleName
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.RoleName() == RoleAdmin
}
