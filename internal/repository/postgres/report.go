package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
)

const reportColumns = `
	id, patient_id, admission_id, report_type, file_name, object_key,
	mime_type, size_bytes, checksum_sha256, uploaded_by, uploaded_at, notes
`

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO report (
			id, patient_id, admission_id, report_type, file_name,
			object_key, mime_type, size_bytes, checksum_sha256,
			uploaded_by, uploaded_at, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	report.ID = uuid.New()
	report.UploadedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.PatientID,
		report.AdmissionID,
		report.ReportType,
		report.FileName,
		report.ObjectKey,
		report.MimeType,
		report.SizeBytes,
		report.ChecksumSHA256,
		report.UploadedBy,
		report.UploadedAt,
		report.Notes,
	)
	if err != nil {
		return translateConflict(err, "report reference already exists")
	}
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM report WHERE id = $1`

	var report model.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, notFoundOr(err, "report")
	}
	return &report, nil
}

func (r *reportRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Report, error) {
	query := `SELECT ` + reportColumns + `
		FROM report WHERE patient_id = $1 ORDER BY uploaded_at DESC`

	reports := []*model.Report{}
	if err := r.db.SelectContext(ctx, &reports, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
