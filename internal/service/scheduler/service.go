package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Config parameterizes the implicit slot grid.
type Config struct {
	DayStart    string
	DayEnd      string
	SlotMinutes int
}

// Service books appointment and lab slots. Slots are implicit
// 30-minute boundaries within operating hours; there is no slot
// template store.
type Service struct {
	repo      repository.BookingRepository
	directory repository.DirectoryRepository
	patients  repository.PatientRepository
	cfg       Config
	// now is swappable for the past-date policy tests.
	now func() time.Time
}

func NewService(repo repository.BookingRepository, directory repository.DirectoryRepository, patients repository.PatientRepository, cfg Config) *Service {
	if cfg.DayStart == "" {
		cfg.DayStart = "09:00"
	}
	if cfg.DayEnd == "" {
		cfg.DayEnd = "17:00"
	}
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = 30
	}
	return &Service{
		repo:      repo,
		directory: directory,
		patients:  patients,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Book reserves (doctor, date, time) for the requester. The tuple
// check and the reservation are one atomic insert; a lost race
// surfaces as a ConflictError.
func (s *Service) Book(ctx context.Context, requester uuid.UUID, req *model.BookSlotRequest) (*model.Booking, error) {
	if !req.Type.Valid() {
		return nil, apperrors.Validationf("unknown booking type %q", req.Type)
	}

	date, err := time.Parse(dateLayout, req.SlotDate)
	if err != nil {
		return nil, apperrors.Validationf("malformed slot date %q, want YYYY-MM-DD", req.SlotDate)
	}
	slotTime, err := time.Parse(timeLayout, req.SlotTime)
	if err != nil {
		return nil, apperrors.Validationf("malformed slot time %q, want HH:MM", req.SlotTime)
	}

	// Policy: reject dates strictly before the current service date.
	today, _ := time.Parse(dateLayout, s.now().Format(dateLayout))
	if date.Before(today) {
		return nil, apperrors.Validationf("cannot book a slot on past date %s", req.SlotDate)
	}
	if !s.onGrid(slotTime) {
		return nil, apperrors.Validationf("slot time %s is outside the booking grid", req.SlotTime)
	}

	doctor, err := s.directory.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if req.PatientID != nil {
		if _, err := s.patients.Get(ctx, *req.PatientID); err != nil {
			return nil, err
		}
	}

	departmentID := req.DepartmentID
	if departmentID == nil {
		departmentID = doctor.DepartmentID
	} else if _, err := s.directory.GetDepartment(ctx, *departmentID); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		UserID:       requester,
		PatientID:    req.PatientID,
		Type:         req.Type,
		DepartmentID: departmentID,
		DoctorID:     req.DoctorID,
		SlotDate:     date.Format(dateLayout),
		SlotTime:     slotTime.Format(timeLayout),
		Status:       model.BookingStatusConfirmed,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel frees the (doctor, date, time) tuple for rebooking.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.repo.Cancel(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int, error) {
	return s.repo.List(ctx, filter)
}

// ListSlots partitions the doctor's grid for one date into available
// and taken, derived from non-cancelled bookings.
func (s *Service) ListSlots(ctx context.Context, doctorID uuid.UUID, date string) (*model.SlotBoard, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperrors.Validationf("malformed date %q, want YYYY-MM-DD", date)
	}
	if _, err := s.directory.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	taken, err := s.repo.TakenSlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	takenSet := make(map[string]bool, len(taken))
	for _, t := range taken {
		takenSet[t] = true
	}

	board := &model.SlotBoard{
		DoctorID:  doctorID,
		Date:      date,
		Available: []string{},
		Taken:     taken,
	}
	for _, slot := range s.grid() {
		if !takenSet[slot] {
			board.Available = append(board.Available, slot)
		}
	}
	return board, nil
}

// grid returns every slot boundary from day start up to, but not
// including, day end.
func (s *Service) grid() []string {
	start, err := time.Parse(timeLayout, s.cfg.DayStart)
	if err != nil {
		start, _ = time.Parse(timeLayout, "09:00")
	}
	end, err := time.Parse(timeLayout, s.cfg.DayEnd)
	if err != nil {
		end, _ = time.Parse(timeLayout, "17:00")
	}

	step := time.Duration(s.cfg.SlotMinutes) * time.Minute
	var slots []string
	for t := start; t.Before(end); t = t.Add(step) {
		slots = append(slots, t.Format(timeLayout))
	}
	return slots
}

func (s *Service) onGrid(slot time.Time) bool {
	want := slot.Format(timeLayout)
	for _, have := range s.grid() {
		if have == want {
			return true
		}
	}
	return false
}
