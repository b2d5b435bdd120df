package model

import (
	"time"

	"github.com/google/uuid"
)

type AdmissionStatus string

const (
	AdmissionStatusPending    AdmissionStatus = "pending"
	AdmissionStatusActive     AdmissionStatus = "active"
	AdmissionStatusDischarged AdmissionStatus = "discharged"
)

// Admission is owned exclusively by the admission ledger. At most one
// active admission may reference a given bed; the database enforces
// this with a partial unique index on (bed_id) WHERE status='active'.
type Admission struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PatientID     uuid.UUID       `json:"patient_id" db:"patient_id"`
	WardID        uuid.UUID       `json:"ward_id" db:"ward_id"`
	BedID         uuid.UUID       `json:"bed_id" db:"bed_id"`
	DoctorID      *uuid.UUID      `json:"doctor_id,omitempty" db:"doctor_id"`
	AdmitTime     time.Time       `json:"admit_time" db:"admit_time"`
	DischargeTime *time.Time      `json:"discharge_time,omitempty" db:"discharge_time"`
	Status        AdmissionStatus `json:"status" db:"status"`
	Notes         string          `json:"notes" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type AdmitRequest struct {
	PatientID uuid.UUID  `json:"patient_id" validate:"required"`
	WardID    uuid.UUID  `json:"ward_id" validate:"required"`
	BedID     uuid.UUID  `json:"bed_id" validate:"required"`
	DoctorID  *uuid.UUID `json:"doctor_id"`
	AdmitTime *time.Time `json:"admit_time"`
	Notes     string     `json:"notes" validate:"max=4000"`
}

// AdmissionFilter narrows active-admission listings. PatientQuery
// matches patient name or MRN.
type AdmissionFilter struct {
	WardID       *uuid.UUID `form:"ward_id"`
	BedID        *uuid.UUID `form:"bed_id"`
	PatientQuery string     `form:"q"`
	Pagination
}

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
)

// AdmissionTask is a work item scoped to one admission.
type AdmissionTask struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AdmissionID uuid.UUID  `json:"admission_id" db:"admission_id"`
	Title       string     `json:"title" db:"title"`
	Details     string     `json:"details" db:"details"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Status      TaskStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateTaskRequest struct {
	Title   string     `json:"title" validate:"required,max=120"`
	Details string     `json:"details" validate:"max=4000"`
	DueDate *time.Time `json:"due_date"`
}
