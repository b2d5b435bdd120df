package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type bookingRepository struct{ s *Store }

func NewBookingRepository(s *Store) repository.BookingRepository {
	return &bookingRepository{s: s}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Same guarantee as the partial unique index on
	// (doctor_id, slot_date, slot_time) WHERE status <> 'cancelled'.
	for _, b := range r.s.bookings {
		if b.DoctorID == booking.DoctorID &&
			b.SlotDate == booking.SlotDate &&
			b.SlotTime == booking.SlotTime &&
			b.Status != model.BookingStatusCancelled {
			return apperrors.Conflict("slot already booked", nil)
		}
	}

	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	cp := *booking
	r.s.bookings[booking.ID] = &cp
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking", nil)
	}
	cp := *b
	return &cp, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking", nil)
	}
	if b.Status == model.BookingStatusCancelled {
		return nil, apperrors.InvalidState("booking already cancelled", nil)
	}

	b.Status = model.BookingStatusCancelled
	cp := *b
	return &cp, nil
}

func (r *bookingRepository) List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Booking
	for _, b := range r.s.bookings {
		if filter.DoctorID != nil && b.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.DepartmentID != nil && (b.DepartmentID == nil || *b.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Date != "" && b.SlotDate != filter.Date {
			continue
		}
		cp := *b
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *bookingRepository) TakenSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var taken []string
	for _, b := range r.s.bookings {
		if b.DoctorID == doctorID && b.SlotDate == date && b.Status != model.BookingStatusCancelled {
			taken = append(taken, b.SlotTime)
		}
	}
	sort.Strings(taken)
	return taken, nil
}
