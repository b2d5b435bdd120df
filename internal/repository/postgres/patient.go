package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

const patientColumns = `
	id, mrn, first_name, last_name, sex, dob, blood_group,
	allergies, address, created_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patient_record (
			id, mrn, first_name, last_name, sex, dob, blood_group,
			allergies, address, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.MRN,
		patient.FirstName,
		patient.LastName,
		patient.Sex,
		patient.DOB,
		patient.BloodGroup,
		patient.Allergies,
		patient.Address,
		patient.CreatedAt,
	)
	if err != nil {
		return translateConflict(err, fmt.Sprintf("MRN %s already registered", patient.MRN))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patient_record WHERE id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, notFoundOr(err, "patient")
	}
	return &patient, nil
}

// Update never touches the MRN; it is immutable once assigned.
func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patient_record
		SET first_name = $1, last_name = $2, sex = $3, dob = $4,
		    blood_group = $5, allergies = $6, address = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Sex,
		patient.DOB,
		patient.BloodGroup,
		patient.Allergies,
		patient.Address,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error) {
	where := " FROM patient_record WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.Query != "" {
		where += fmt.Sprintf(" AND (mrn ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			argCount, argCount, argCount)
		args = append(args, "%"+filter.Query+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := "SELECT " + patientColumns + where +
		fmt.Sprintf(" ORDER BY last_name ASC, first_name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}
