package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MedicalOrderStatus string

const (
	MedicalOrderStatusOrdered   MedicalOrderStatus = "ordered"
	MedicalOrderStatusCompleted MedicalOrderStatus = "completed"
	MedicalOrderStatusCancelled MedicalOrderStatus = "cancelled"
)

// CanTransition reports whether from -> to is a legal move. Completed
// and cancelled are terminal.
func (from MedicalOrderStatus) CanTransition(to MedicalOrderStatus) bool {
	if from != MedicalOrderStatusOrdered {
		return false
	}
	return to == MedicalOrderStatusCompleted || to == MedicalOrderStatusCancelled
}

// MedicalOrder is a staff-issued care instruction (lab, medication,
// imaging, ...) scoped to one admission. PatientID is projected from
// the admission on reads, never stored.
type MedicalOrder struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	AdmissionID uuid.UUID          `json:"admission_id" db:"admission_id"`
	PatientID   uuid.UUID          `json:"patient_id" db:"patient_id"`
	CreatedBy   uuid.UUID          `json:"created_by" db:"created_by"`
	OrderType   string             `json:"order_type" db:"order_type"`
	Status      MedicalOrderStatus `json:"status" db:"status"`
	Payload     json.RawMessage    `json:"payload,omitempty" db:"payload_json"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

type CreateMedicalOrderRequest struct {
	AdmissionID uuid.UUID       `json:"admission_id" validate:"required"`
	OrderType   string          `json:"order_type" validate:"required,max=32"`
	Payload     json.RawMessage `json:"payload"`
}

type SetMedicalOrderStatusRequest struct {
	Status MedicalOrderStatus `json:"status" validate:"required"`
}

type MedicalOrderFilter struct {
	AdmissionID *uuid.UUID          `form:"admission_id"`
	PatientID   *uuid.UUID          `form:"patient_id"`
	OrderType   string              `form:"type"`
	Status      *MedicalOrderStatus `form:"status"`
	From        string              `form:"from"`
	To          string              `form:"to"`
	Pagination
}
