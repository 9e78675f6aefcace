// Package types provides type definitions for structured data used throughout the obituary search pipeline.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is shared across request types; the validator caches struct
// metadata per instance.
var validate = validator.New()

// CreateUserRequest is the body of a registration call.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// Validate checks the registration fields against their constraints.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the login fields against their constraints.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// UpdatePasswordRequest is the body of a password change call. The current
// password is re-checked before the new one is accepted.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Validate checks the password-change fields against their constraints.
func (r *UpdatePasswordRequest) Validate() error {
	return validate.Struct(r)
}

// User is the account shape returned by API responses. It deliberately has
// no password hash field.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse pairs the account with a freshly minted bearer token. Both
// register and login answer with this shape.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
