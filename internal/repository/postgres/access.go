package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

const grantColumns = `id, user_id, patient_id, relationship, created_at, updated_at`

// Upsert relies on the unique (user_id, patient_id) constraint:
// re-granting updates the relationship in place instead of
// duplicating the pair, even under concurrent grants.
func (r *accessRepository) Upsert(ctx context.Context, grant *model.AccessGrant) error {
	query := `
		INSERT INTO patient_access (id, user_id, patient_id, relationship, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, patient_id)
		DO UPDATE SET relationship = EXCLUDED.relationship, updated_at = EXCLUDED.updated_at
		RETURNING ` + grantColumns

	now := time.Now()
	err := r.db.GetContext(ctx, grant, query,
		uuid.New(), grant.UserID, grant.PatientID, grant.Relationship, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert access grant: %w", err)
	}
	return nil
}

func (r *accessRepository) Get(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM patient_access WHERE id = $1`

	var grant model.AccessGrant
	if err := r.db.GetContext(ctx, &grant, query, id); err != nil {
		return nil, notFoundOr(err, "access grant")
	}
	return &grant, nil
}

func (r *accessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patient_access WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to revoke access grant: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("access grant", nil)
	}
	return nil
}

func (r *accessRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AccessGrant, error) {
	query := `SELECT ` + grantColumns + `
		FROM patient_access WHERE user_id = $1 ORDER BY created_at ASC`

	grants := []*model.AccessGrant{}
	if err := r.db.SelectContext(ctx, &grants, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list grants for user: %w", err)
	}
	return grants, nil
}

func (r *accessRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AccessGrant, error) {
	query := `SELECT ` + grantColumns + `
		FROM patient_access WHERE patient_id = $1 ORDER BY created_at ASC`

	grants := []*model.AccessGrant{}
	if err := r.db.SelectContext(ctx, &grants, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list grants for patient: %w", err)
	}
	return grants, nil
}
