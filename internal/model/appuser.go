package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RolePatient  UserRole = "patient"
	RoleGuardian UserRole = "guardian"
	RoleStaff    UserRole = "staff"
)

func (r UserRole) Valid() bool {
	switch r {
	case RolePatient, RoleGuardian, RoleStaff:
		return true
	}
	return false
}

// AppUser is an app identity. The engine consumes it as the principal
// behind every call; credential transport lives outside the engine.
type AppUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Username     *string   `json:"username,omitempty" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type RegisterUserRequest struct {
	Email    string   `json:"email" validate:"omitempty,email"`
	Phone    string   `json:"phone" validate:"omitempty,max=20"`
	Username string   `json:"username" validate:"omitempty,max=150"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     UserRole `json:"role" validate:"required"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  *AppUser `json:"user"`
}
