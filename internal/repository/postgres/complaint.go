package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

const complaintColumns = `
	id, user_id, patient_id, admission_id, ward_id, bed_id,
	category, description, status, created_at, resolved_at
`

func (r *complaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	query := `
		INSERT INTO complaint (
			id, user_id, patient_id, admission_id, ward_id, bed_id,
			category, description, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	complaint.ID = uuid.New()
	complaint.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		complaint.ID,
		complaint.UserID,
		complaint.PatientID,
		complaint.AdmissionID,
		complaint.WardID,
		complaint.BedID,
		complaint.Category,
		complaint.Description,
		complaint.Status,
		complaint.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

func (r *complaintRepository) Get(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaint WHERE id = $1`

	var complaint model.Complaint
	if err := r.db.GetContext(ctx, &complaint, query, id); err != nil {
		return nil, notFoundOr(err, "complaint")
	}
	return &complaint, nil
}

func (r *complaintRepository) Update(ctx context.Context, complaint *model.Complaint) error {
	query := `
		UPDATE complaint
		SET status = $1, resolved_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, complaint.Status, complaint.ResolvedAt, complaint.ID)
	if err != nil {
		return fmt.Errorf("failed to update complaint: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("complaint", nil)
	}
	return nil
}

func (r *complaintRepository) List(ctx context.Context, filter *model.ComplaintFilter) ([]*model.Complaint, int, error) {
	where := " FROM complaint WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.PatientID != nil {
		where += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, *filter.PatientID)
		argCount++
	}
	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, *filter.UserID)
		argCount++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count complaints: %w", err)
	}

	query := "SELECT " + complaintColumns + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	complaints := []*model.Complaint{}
	if err := r.db.SelectContext(ctx, &complaints, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, total, nil
}
