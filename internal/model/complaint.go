package model

import (
	"time"

	"github.com/google/uuid"
)

type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusOpen:       {ComplaintStatusInProgress, ComplaintStatusResolved},
	ComplaintStatusInProgress: {ComplaintStatusResolved},
}

func (from ComplaintStatus) CanTransition(to ComplaintStatus) bool {
	for _, next := range complaintTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Complaint snapshots the patient's admission/ward/bed at creation
// time so the record stays accurate after discharge.
type Complaint struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	PatientID   uuid.UUID       `json:"patient_id" db:"patient_id"`
	AdmissionID *uuid.UUID      `json:"admission_id,omitempty" db:"admission_id"`
	WardID      *uuid.UUID      `json:"ward_id,omitempty" db:"ward_id"`
	BedID       *uuid.UUID      `json:"bed_id,omitempty" db:"bed_id"`
	Category    string          `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	Status      ComplaintStatus `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty" db:"resolved_at"`
}

type CreateComplaintRequest struct {
	PatientID   uuid.UUID `json:"patient_id" validate:"required"`
	Category    string    `json:"category" validate:"max=64"`
	Description string    `json:"description" validate:"required,max=8000"`
}

type SetComplaintStatusRequest struct {
	Status ComplaintStatus `json:"status" validate:"required"`
}

type ComplaintFilter struct {
	PatientID *uuid.UUID       `form:"patient_id"`
	UserID    *uuid.UUID       `form:"-"`
	Status    *ComplaintStatus `form:"status"`
	Pagination
}
