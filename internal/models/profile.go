package models

import "time"

// Role is the access level carried in access tokens
type Role int

const (
	RoleStudent Role = 1
	RoleAdmin   Role = 2
)

// Profile is the account record of a platform user
type Profile struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"fullName,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
