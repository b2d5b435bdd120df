package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository/memory"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *model.Doctor) {
	t.Helper()

	store := memory.NewStore()
	directory := memory.NewDirectoryRepository(store)
	svc := NewService(memory.NewBookingRepository(store), directory, memory.NewPatientRepository(store), Config{})
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 10, 11, 30, 0, 0, time.UTC)
	}

	doctor := &model.Doctor{FullName: "Dr. Meera Iyer", Qualification: "MD"}
	require.NoError(t, directory.CreateDoctor(context.Background(), doctor))
	return svc, doctor
}

func bookReq(doctorID uuid.UUID, date, slot string) *model.BookSlotRequest {
	return &model.BookSlotRequest{
		Type:     model.BookingTypeAppointment,
		DoctorID: doctorID,
		SlotDate: date,
		SlotTime: slot,
	}
}

func TestGrid(t *testing.T) {
	svc, _ := newTestService(t)

	slots := svc.grid()
	assert.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "16:30", slots[len(slots)-1])
	assert.NotContains(t, slots, "17:00")
}

func TestBook(t *testing.T) {
	svc, doctor := newTestService(t)
	ctx := context.Background()
	requester := uuid.New()

	booking, err := svc.Book(ctx, requester, bookReq(doctor.ID, "2026-03-12", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, requester, booking.UserID)
	assert.Equal(t, "2026-03-12", booking.SlotDate)
	assert.Equal(t, "10:00", booking.SlotTime)
}

func TestBookInheritsDoctorDepartment(t *testing.T) {
	store := memory.NewStore()
	directory := memory.NewDirectoryRepository(store)
	svc := NewService(memory.NewBookingRepository(store), directory, memory.NewPatientRepository(store), Config{})
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 10, 11, 30, 0, 0, time.UTC)
	}
	ctx := context.Background()

	dept := &model.Department{Name: "Cardiology"}
	require.NoError(t, directory.CreateDepartment(ctx, dept))
	doctor := &model.Doctor{FullName: "Dr. Meera Iyer", DepartmentID: &dept.ID}
	require.NoError(t, directory.CreateDoctor(ctx, doctor))

	booking, err := svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10:00"))
	require.NoError(t, err)
	require.NotNil(t, booking.DepartmentID)
	assert.Equal(t, dept.ID, *booking.DepartmentID)
}

func TestBookValidatesReferences(t *testing.T) {
	svc, doctor := newTestService(t)
	ctx := context.Background()

	// A booking for a patient nobody registered must not land.
	ghostPatient := uuid.New()
	req := bookReq(doctor.ID, "2026-03-12", "10:00")
	req.PatientID = &ghostPatient
	_, err := svc.Book(ctx, uuid.New(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	ghostDept := uuid.New()
	req = bookReq(doctor.ID, "2026-03-12", "10:00")
	req.DepartmentID = &ghostDept
	_, err = svc.Book(ctx, uuid.New(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// Both rejections left the slot free.
	patient := &model.Patient{MRN: "MRN-2001", FirstName: "Asha", LastName: "Rao"}
	require.NoError(t, svc.patients.Create(ctx, patient))

	req = bookReq(doctor.ID, "2026-03-12", "10:00")
	req.PatientID = &patient.ID
	booking, err := svc.Book(ctx, uuid.New(), req)
	require.NoError(t, err)
	require.NotNil(t, booking.PatientID)
	assert.Equal(t, patient.ID, *booking.PatientID)
}

func TestDoubleBookConflict(t *testing.T) {
	svc, doctor := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10:00"))
	require.NoError(t, err)

	_, err = svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10:00"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// A different slot on the same day is fine.
	_, err = svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10:30"))
	require.NoError(t, err)
}

func TestConcurrentBookSingleWinner(t *testing.T) {
	svc, doctor := newTestService(t)
	ctx := context.Background()

	const racers = 2
	errs := make([]error, racers)
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10:00"))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperrors.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

func TestCancelFreesSlot(t *testing.T) {
	svc, doctor := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10:00"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

	_, err = svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10:00"))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, booking.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestBookPastDate(t *testing.T) {
	svc, doctor := newTestService(t)

	_, err := svc.Book(context.Background(), uuid.New(), bookReq(doctor.ID, "2026-03-09", "10:00"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	// Same-day booking stays allowed.
	_, err = svc.Book(context.Background(), uuid.New(), bookReq(doctor.ID, "2026-03-10", "10:00"))
	require.NoError(t, err)
}

func TestBookOffGrid(t *testing.T) {
	svc, doctor := newTestService(t)
	ctx := context.Background()

	for _, slot := range []string{"10:15", "08:30", "17:00", "21:00"} {
		_, err := svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", slot))
		require.Error(t, err, "slot %s", slot)
		assert.True(t, apperrors.IsValidation(err), "slot %s", slot)
	}
}

func TestBookBadInput(t *testing.T) {
	svc, doctor := newTestService(t)
	ctx := context.Background()

	req := bookReq(doctor.ID, "2026-03-12", "10:00")
	req.Type = "walk-in"
	_, err := svc.Book(ctx, uuid.New(), req)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "12/03/2026", "10:00"))
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10am"))
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Book(ctx, uuid.New(), bookReq(uuid.New(), "2026-03-12", "10:00"))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListSlots(t *testing.T) {
	svc, doctor := newTestService(t)
	ctx := context.Background()

	// Booked out of clock order; the board must come back sorted.
	_, err := svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "10:00"))
	require.NoError(t, err)
	_, err = svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "09:00"))
	require.NoError(t, err)
	cancelled, err := svc.Book(ctx, uuid.New(), bookReq(doctor.ID, "2026-03-12", "11:00"))
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	board, err := svc.ListSlots(ctx, doctor.ID, "2026-03-12")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, board.Taken)
	assert.Len(t, board.Available, 14)
	assert.Contains(t, board.Available, "11:00")
	assert.NotContains(t, board.Available, "09:00")

	_, err = svc.ListSlots(ctx, doctor.ID, "last tuesday")
	assert.True(t, apperrors.IsValidation(err))
}
