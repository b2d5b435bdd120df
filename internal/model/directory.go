package model

import (
	"time"

	"github.com/google/uuid"
)

// Department is reference data; other components look departments up
// but never mutate them.
type Department struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Doctor struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	DepartmentID    *uuid.UUID `json:"department_id,omitempty" db:"department_id"`
	FullName        string     `json:"full_name" db:"full_name"`
	Qualification   string     `json:"qualification" db:"qualification"`
	ExperienceYears *int       `json:"experience_years,omitempty" db:"experience_years"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

type Ward struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty" db:"department_id"`
	Name         string     `json:"name" db:"name"`
	Floor        *int       `json:"floor,omitempty" db:"floor"`
	Notes        string     `json:"notes" db:"notes"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Bed belongs to exactly one ward. Occupied is derived from the
// admission ledger at read time, never stored.
type Bed struct {
	ID        uuid.UUID `json:"id" db:"id"`
	WardID    uuid.UUID `json:"ward_id" db:"ward_id"`
	Code      string    `json:"code" db:"code"`
	Occupied  bool      `json:"occupied" db:"occupied"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type MenuItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Category   string    `json:"category" db:"category"`
	PriceCents int       `json:"price_cents" db:"price_cents"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type CreateDoctorRequest struct {
	DepartmentID    *uuid.UUID `json:"department_id"`
	FullName        string     `json:"full_name" validate:"required,max=120"`
	Qualification   string     `json:"qualification" validate:"max=100"`
	ExperienceYears *int       `json:"experience_years" validate:"omitempty,gte=0"`
}

type CreateWardRequest struct {
	DepartmentID *uuid.UUID `json:"department_id"`
	Name         string     `json:"name" validate:"required,max=100"`
	Floor        *int       `json:"floor"`
	Notes        string     `json:"notes" validate:"max=2000"`
}

type CreateBedRequest struct {
	WardID uuid.UUID `json:"ward_id" validate:"required"`
	Code   string    `json:"code" validate:"required,max=20"`
}

type CreateMenuItemRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Category   string `json:"category" validate:"max=40"`
	PriceCents int    `json:"price_cents" validate:"required,gt=0"`
}

// DirectoryFilter narrows reference-data listings. Query matches
// names with a case-insensitive substring search.
type DirectoryFilter struct {
	Query        string     `form:"q"`
	DepartmentID *uuid.UUID `form:"department_id"`
	WardID       *uuid.UUID `form:"ward_id"`
	ActiveOnly   bool       `form:"active_only"`
	Pagination
}
