package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is a saved delivery address on a user profile.
type Address struct {
	FullName  string `json:"fullName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

// User represents an account. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	Addresses    []Address  `json:"addresses" db:"addresses"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the signed token and the authenticated profile.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
