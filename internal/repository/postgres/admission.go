package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

const admissionColumns = `
	id, patient_id, ward_id, bed_id, doctor_id, admit_time,
	discharge_time, status, notes, created_at, updated_at
`

func (r *admissionRepository) Create(ctx context.Context, admission *model.Admission) error {
	query := `
		INSERT INTO admission (
			id, patient_id, ward_id, bed_id, doctor_id, admit_time,
			status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	admission.ID = uuid.New()
	admission.CreatedAt = time.Now()
	admission.UpdatedAt = admission.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		admission.ID,
		admission.PatientID,
		admission.WardID,
		admission.BedID,
		admission.DoctorID,
		admission.AdmitTime,
		admission.Status,
		admission.Notes,
		admission.CreatedAt,
		admission.UpdatedAt,
	)
	if err != nil {
		// The partial unique index on (bed_id) WHERE status='active'
		// is what makes check-and-reserve atomic.
		return translateConflict(err, "bed already has an active admission")
	}
	return nil
}

func (r *admissionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	query := `SELECT ` + admissionColumns + ` FROM admission WHERE id = $1`

	var admission model.Admission
	if err := r.db.GetContext(ctx, &admission, query, id); err != nil {
		return nil, notFoundOr(err, "admission")
	}
	return &admission, nil
}

func (r *admissionRepository) Discharge(ctx context.Context, id uuid.UUID, at time.Time) (*model.Admission, error) {
	query := `
		UPDATE admission
		SET status = $1, discharge_time = $2, updated_at = $3
		WHERE id = $4 AND status <> $1
		RETURNING ` + admissionColumns

	var admission model.Admission
	err := r.db.GetContext(ctx, &admission, query, model.AdmissionStatusDischarged, at, time.Now(), id)
	if err == nil {
		return &admission, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to discharge admission: %w", err)
	}

	// No row changed: either the admission is missing or it is
	// already discharged.
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.InvalidState("admission already discharged", nil)
}

func (r *admissionRepository) ListActive(ctx context.Context, filter *model.AdmissionFilter) ([]*model.Admission, int, error) {
	where := ` FROM admission WHERE status = 'active'`
	args := []interface{}{}
	argCount := 1

	if filter.WardID != nil {
		where += fmt.Sprintf(" AND ward_id = $%d", argCount)
		args = append(args, *filter.WardID)
		argCount++
	}
	if filter.BedID != nil {
		where += fmt.Sprintf(" AND bed_id = $%d", argCount)
		args = append(args, *filter.BedID)
		argCount++
	}
	if filter.PatientQuery != "" {
		where += fmt.Sprintf(` AND patient_id IN (
			SELECT id FROM patient_record
			WHERE mrn ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d
		)`, argCount, argCount, argCount)
		args = append(args, "%"+filter.PatientQuery+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count active admissions: %w", err)
	}

	query := "SELECT " + admissionColumns + where +
		fmt.Sprintf(" ORDER BY admit_time DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	admissions := []*model.Admission{}
	if err := r.db.SelectContext(ctx, &admissions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list active admissions: %w", err)
	}
	return admissions, total, nil
}

func (r *admissionRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Admission, error) {
	query := `SELECT ` + admissionColumns + `
		FROM admission WHERE patient_id = $1 ORDER BY admit_time DESC`

	admissions := []*model.Admission{}
	if err := r.db.SelectContext(ctx, &admissions, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}
	return admissions, nil
}

func (r *admissionRepository) ActiveForPatient(ctx context.Context, patientID uuid.UUID) (*model.Admission, error) {
	query := `SELECT ` + admissionColumns + `
		FROM admission WHERE patient_id = $1 AND status = 'active'
		ORDER BY admit_time DESC LIMIT 1`

	var admission model.Admission
	if err := r.db.GetContext(ctx, &admission, query, patientID); err != nil {
		return nil, notFoundOr(err, "active admission")
	}
	return &admission, nil
}

// IsOccupied derives bed occupancy from the ledger; there is no
// stored flag to drift.
func (r *admissionRepository) IsOccupied(ctx context.Context, bedID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM admission WHERE bed_id = $1 AND status = 'active'
	)`

	var occupied bool
	if err := r.db.GetContext(ctx, &occupied, query, bedID); err != nil {
		return false, fmt.Errorf("failed to check occupancy: %w", err)
	}
	return occupied, nil
}

func (r *admissionRepository) CreateTask(ctx context.Context, task *model.AdmissionTask) error {
	query := `
		INSERT INTO admission_task (
			id, admission_id, title, details, due_date, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	task.ID = uuid.New()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.AdmissionID,
		task.Title,
		task.Details,
		task.DueDate,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admission task: %w", err)
	}
	return nil
}

func (r *admissionRepository) GetTask(ctx context.Context, id uuid.UUID) (*model.AdmissionTask, error) {
	query := `
		SELECT id, admission_id, title, details, due_date, status, created_at, updated_at
		FROM admission_task WHERE id = $1
	`
	var task model.AdmissionTask
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		return nil, notFoundOr(err, "admission task")
	}
	return &task, nil
}

func (r *admissionRepository) UpdateTask(ctx context.Context, task *model.AdmissionTask) error {
	query := `
		UPDATE admission_task
		SET title = $1, details = $2, due_date = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	task.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.Details, task.DueDate, task.Status, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update admission task: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("admission task", nil)
	}
	return nil
}

func (r *admissionRepository) ListTasks(ctx context.Context, admissionID uuid.UUID) ([]*model.AdmissionTask, error) {
	query := `
		SELECT id, admission_id, title, details, due_date, status, created_at, updated_at
		FROM admission_task WHERE admission_id = $1 ORDER BY created_at DESC
	`
	tasks := []*model.AdmissionTask{}
	if err := r.db.SelectContext(ctx, &tasks, query, admissionID); err != nil {
		return nil, fmt.Errorf("failed to list admission tasks: %w", err)
	}
	return tasks, nil
}
