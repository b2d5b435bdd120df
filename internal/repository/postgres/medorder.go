package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
)

// medicalOrderColumns projects patient_id from the admission so
// callers can filter and display without a second query.
const medicalOrderColumns = `
	mo.id, mo.admission_id, a.patient_id, mo.created_by,
	mo.order_type, mo.status, mo.payload_json, mo.created_at
`

func (r *medicalOrderRepository) Create(ctx context.Context, order *model.MedicalOrder) error {
	query := `
		INSERT INTO medical_order (
			id, admission_id, created_by, order_type, status, payload_json, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	order.ID = uuid.New()
	order.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.AdmissionID,
		order.CreatedBy,
		order.OrderType,
		order.Status,
		order.Payload,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical order: %w", err)
	}
	return nil
}

func (r *medicalOrderRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalOrder, error) {
	query := `SELECT ` + medicalOrderColumns + `
		FROM medical_order mo
		JOIN admission a ON a.id = mo.admission_id
		WHERE mo.id = $1`

	var order model.MedicalOrder
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, notFoundOr(err, "medical order")
	}
	return &order, nil
}

func (r *medicalOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.MedicalOrderStatus) (bool, error) {
	query := `
		UPDATE medical_order
		SET status = $1
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update medical order status: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *medicalOrderRepository) List(ctx context.Context, filter *model.MedicalOrderFilter) ([]*model.MedicalOrder, int, error) {
	where := ` FROM medical_order mo
		JOIN admission a ON a.id = mo.admission_id
		WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filter.AdmissionID != nil {
		where += fmt.Sprintf(" AND mo.admission_id = $%d", argCount)
		args = append(args, *filter.AdmissionID)
		argCount++
	}
	if filter.PatientID != nil {
		where += fmt.Sprintf(" AND a.patient_id = $%d", argCount)
		args = append(args, *filter.PatientID)
		argCount++
	}
	if filter.OrderType != "" {
		where += fmt.Sprintf(" AND mo.order_type = $%d", argCount)
		args = append(args, filter.OrderType)
		argCount++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND mo.status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}
	if filter.From != "" {
		where += fmt.Sprintf(" AND mo.created_at::date >= $%d", argCount)
		args = append(args, filter.From)
		argCount++
	}
	if filter.To != "" {
		where += fmt.Sprintf(" AND mo.created_at::date <= $%d", argCount)
		args = append(args, filter.To)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count medical orders: %w", err)
	}

	query := "SELECT " + medicalOrderColumns + where +
		fmt.Sprintf(" ORDER BY mo.created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	orders := []*model.MedicalOrder{}
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list medical orders: %w", err)
	}
	return orders, total, nil
}
