package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the master identity record. MRN is unique and immutable
// once assigned; patients are never hard-deleted because history
// references them.
type Patient struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	MRN        string     `json:"mrn" db:"mrn"`
	FirstName  string     `json:"first_name" db:"first_name"`
	LastName   string     `json:"last_name" db:"last_name"`
	Sex        string     `json:"sex" db:"sex"`
	DOB        *time.Time `json:"dob,omitempty" db:"dob"`
	BloodGroup string     `json:"blood_group" db:"blood_group"`
	Allergies  string     `json:"allergies" db:"allergies"`
	Address    string     `json:"address" db:"address"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

type CreatePatientRequest struct {
	MRN        string     `json:"mrn" validate:"required,max=32"`
	FirstName  string     `json:"first_name" validate:"required,max=80"`
	LastName   string     `json:"last_name" validate:"required,max=80"`
	Sex        string     `json:"sex" validate:"max=12"`
	DOB        *time.Time `json:"dob"`
	BloodGroup string     `json:"blood_group" validate:"max=8"`
	Allergies  string     `json:"allergies" validate:"max=2000"`
	Address    string     `json:"address" validate:"max=2000"`
}

// UpdatePatientRequest covers the mutable fields. MRN is deliberately
// absent.
type UpdatePatientRequest struct {
	FirstName  *string    `json:"first_name" validate:"omitempty,max=80"`
	LastName   *string    `json:"last_name" validate:"omitempty,max=80"`
	Sex        *string    `json:"sex" validate:"omitempty,max=12"`
	DOB        *time.Time `json:"dob"`
	BloodGroup *string    `json:"blood_group" validate:"omitempty,max=8"`
	Allergies  *string    `json:"allergies" validate:"omitempty,max=2000"`
	Address    *string    `json:"address" validate:"omitempty,max=2000"`
}

// PatientFilter matches name or MRN with a free-text query.
type PatientFilter struct {
	Query string `form:"q"`
	Pagination
}
