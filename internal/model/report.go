package model

import (
	"time"

	"github.com/google/uuid"
)

// Report is the stored metadata for an uploaded file. ObjectKey is
// the durable reference into the blob store, unique per upload.
type Report struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	PatientID      uuid.UUID  `json:"patient_id" db:"patient_id"`
	AdmissionID    *uuid.UUID `json:"admission_id,omitempty" db:"admission_id"`
	ReportType     string     `json:"report_type" db:"report_type"`
	FileName       string     `json:"file_name" db:"file_name"`
	ObjectKey      string     `json:"object_key" db:"object_key"`
	MimeType       string     `json:"mime_type" db:"mime_type"`
	SizeBytes      int64      `json:"size_bytes" db:"size_bytes"`
	ChecksumSHA256 string     `json:"checksum_sha256" db:"checksum_sha256"`
	UploadedBy     uuid.UUID  `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt     time.Time  `json:"uploaded_at" db:"uploaded_at"`
	Notes          string     `json:"notes" db:"notes"`
}

type UploadReportRequest struct {
	PatientID   uuid.UUID  `form:"patient_id" validate:"required"`
	AdmissionID *uuid.UUID `form:"admission_id"`
	ReportType  string     `form:"report_type" validate:"required,max=32"`
	Notes       string     `form:"notes" validate:"max=2000"`
}
