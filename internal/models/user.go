package models

import (
	"time"
)

// User represents a registered user of the Tastebook application.
// It contains authentication information and core user attributes.
// The password is stored only as a salted Argon2id hash; the reset
// fields hold the hash and expiry of an outstanding password reset
// token and are cleared after use or on delivery failure.
type User struct {
	ID               int64      `json:"id" db:"user_id"`
	Name             string     `json:"name" db:"name" validate:"required,min=2,max=50"`
	Email            string     `json:"email" db:"email" validate:"required,email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Salt             string     `json:"-" db:"salt"`
	ResetTokenHash   *string    `json:"-" db:"reset_token_hash"`
	ResetTokenExpiry *time.Time `json:"-" db:"reset_token_expiry"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User instance with the given name and email.
// Password fields are populated later during the registration process.
func NewUser(name, email string) *User {
	now := time.Now()
	return &User{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Sanitize removes sensitive information from the User object when sending to
// clients. The JSON tags already hide the credential fields; this additionally
// guards against accidental exposure through other encoders.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.PasswordHash = ""
	sanitized.Salt = ""
	sanitized.ResetTokenHash = nil
	sanitized.ResetTokenExpiry = nil
	return &sanitized
}

// UserCredentials represents the login credentials provided by a user.
type UserCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserRegistration represents the data required for user registration.
type UserRegistration struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,strong_password"`
}

// UserUpdate represents the profile fields a user may change.
type UserUpdate struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
}

// PasswordUpdate represents a password change by an authenticated user.
// The current password must be verified before the new one is set.
type PasswordUpdate struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,strong_password"`
}

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the structure for resetting a password with a
// token. The plaintext token itself travels in the URL path.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,strong_password"`
}
