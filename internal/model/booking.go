package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingType string

const (
	BookingTypeAppointment BookingType = "appointment"
	BookingTypeLab         BookingType = "lab"
)

func (t BookingType) Valid() bool {
	return t == BookingTypeAppointment || t == BookingTypeLab
}

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking holds a (doctor, date, time) slot. The database enforces at
// most one non-cancelled booking per tuple with a partial unique
// index; cancelling frees the tuple for rebooking.
type Booking struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	UserID       uuid.UUID     `json:"user_id" db:"user_id"`
	PatientID    *uuid.UUID    `json:"patient_id,omitempty" db:"patient_id"`
	Type         BookingType   `json:"booking_type" db:"booking_type"`
	DepartmentID *uuid.UUID    `json:"department_id,omitempty" db:"department_id"`
	DoctorID     uuid.UUID     `json:"doctor_id" db:"doctor_id"`
	SlotDate     string        `json:"slot_date" db:"slot_date"`
	SlotTime     string        `json:"slot_time" db:"slot_time"`
	Status       BookingStatus `json:"status" db:"status"`
	Notes        string        `json:"notes" db:"notes"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

type BookSlotRequest struct {
	PatientID    *uuid.UUID  `json:"patient_id"`
	Type         BookingType `json:"booking_type" validate:"required"`
	DepartmentID *uuid.UUID  `json:"department_id"`
	DoctorID     uuid.UUID   `json:"doctor_id" validate:"required"`
	SlotDate     string      `json:"slot_date" validate:"required"`
	SlotTime     string      `json:"slot_time" validate:"required"`
	Notes        string      `json:"notes" validate:"max=2000"`
}

// SlotBoard partitions a doctor's day into available and taken slots.
type SlotBoard struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Available []string  `json:"available"`
	Taken     []string  `json:"taken"`
}

type BookingFilter struct {
	DoctorID     *uuid.UUID     `form:"doctor_id"`
	DepartmentID *uuid.UUID     `form:"department_id"`
	UserID       *uuid.UUID     `form:"-"`
	Status       *BookingStatus `form:"status"`
	Date         string         `form:"date"`
	Pagination
}
