package model

import (
	"time"

	"github.com/google/uuid"
)

type Relationship string

const (
	RelationshipGuardian  Relationship = "guardian"
	RelationshipSelf      Relationship = "self"
	RelationshipCaregiver Relationship = "caregiver"
	RelationshipOther     Relationship = "other"
)

func (r Relationship) Valid() bool {
	switch r {
	case RelationshipGuardian, RelationshipSelf, RelationshipCaregiver, RelationshipOther:
		return true
	}
	return false
}

// AccessGrant links an app identity to a patient it may view. The
// (user, patient) pair is unique; re-granting updates the
// relationship in place.
type AccessGrant struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	UserID       uuid.UUID    `json:"user_id" db:"user_id"`
	PatientID    uuid.UUID    `json:"patient_id" db:"patient_id"`
	Relationship Relationship `json:"relationship" db:"relationship"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

type GrantAccessRequest struct {
	UserID       uuid.UUID    `json:"user_id" validate:"required"`
	PatientID    uuid.UUID    `json:"patient_id" validate:"required"`
	Relationship Relationship `json:"relationship" validate:"required"`
}
