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

const bookingColumns = `
	id, user_id, patient_id, booking_type, department_id, doctor_id,
	slot_date, slot_time, status, notes, created_at
`

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO booking (
			id, user_id, patient_id, booking_type, department_id,
			doctor_id, slot_date, slot_time, status, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.PatientID,
		booking.Type,
		booking.DepartmentID,
		booking.DoctorID,
		booking.SlotDate,
		booking.SlotTime,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
	)
	if err != nil {
		// Partial unique index on (doctor_id, slot_date, slot_time)
		// WHERE status <> 'cancelled'.
		return translateConflict(err, "slot already booked")
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking WHERE id = $1`

	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, notFoundOr(err, "booking")
	}
	return &booking, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		UPDATE booking
		SET status = $1
		WHERE id = $2 AND status <> $1
		RETURNING ` + bookingColumns

	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, model.BookingStatusCancelled, id)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if _, getErr := r.Get(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.InvalidState("booking already cancelled", nil)
}

func (r *bookingRepository) List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int, error) {
	where := " FROM booking WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.DoctorID != nil {
		where += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, *filter.DoctorID)
		argCount++
	}
	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND department_id = $%d", argCount)
		args = append(args, *filter.DepartmentID)
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
	if filter.Date != "" {
		where += fmt.Sprintf(" AND slot_date = $%d", argCount)
		args = append(args, filter.Date)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := "SELECT " + bookingColumns + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	bookings := []*model.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *bookingRepository) TakenSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	query := `
		SELECT slot_time FROM booking
		WHERE doctor_id = $1 AND slot_date = $2 AND status <> 'cancelled'
		ORDER BY slot_time ASC
	`
	taken := []string{}
	if err := r.db.SelectContext(ctx, &taken, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to fetch taken slots: %w", err)
	}
	return taken, nil
}
