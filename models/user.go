package models

import "time"

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleMember  UserRole = "member"
)

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Device maps an installed app instance to its current push token.
// A user can hold several devices; a device may be anonymous.
type Device struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"user_id,omitempty"`
	DeviceID  string    `json:"device_id"`
	PushToken string    `json:"push_token"`
	UpdatedAt time.Time `json:"updated_at"`
}
