package admission

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	"github.com/healthvault/ops-api/internal/repository/memory"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type fixture struct {
	svc       *Service
	patients  repository.PatientRepository
	directory repository.DirectoryRepository
	patient   *model.Patient
	ward      *model.Ward
	bed       *model.Bed
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	patients := memory.NewPatientRepository(store)
	directory := memory.NewDirectoryRepository(store)
	svc := NewService(memory.NewAdmissionRepository(store), patients, directory)

	patient := &model.Patient{MRN: "MRN-1001", FirstName: "Asha", LastName: "Rao"}
	require.NoError(t, patients.Create(ctx, patient))

	ward := &model.Ward{Name: "General A"}
	require.NoError(t, directory.CreateWard(ctx, ward))

	bed := &model.Bed{WardID: ward.ID, Code: "A-01"}
	require.NoError(t, directory.CreateBed(ctx, bed))

	return &fixture{
		svc:       svc,
		patients:  patients,
		directory: directory,
		patient:   patient,
		ward:      ward,
		bed:       bed,
	}
}

func (f *fixture) admit(t *testing.T) *model.Admission {
	t.Helper()
	adm, err := f.svc.Admit(context.Background(), &model.AdmitRequest{
		PatientID: f.patient.ID,
		WardID:    f.ward.ID,
		BedID:     f.bed.ID,
	})
	require.NoError(t, err)
	return adm
}

func TestAdmitAndDischarge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adm := f.admit(t)
	assert.Equal(t, model.AdmissionStatusActive, adm.Status)
	assert.False(t, adm.AdmitTime.IsZero())

	occupied, err := f.svc.IsOccupied(ctx, f.bed.ID)
	require.NoError(t, err)
	assert.True(t, occupied)

	discharged, err := f.svc.Discharge(ctx, adm.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AdmissionStatusDischarged, discharged.Status)
	require.NotNil(t, discharged.DischargeTime)

	occupied, err = f.svc.IsOccupied(ctx, f.bed.ID)
	require.NoError(t, err)
	assert.False(t, occupied)
}

func TestAdmitOccupiedBedConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.admit(t)

	other := &model.Patient{MRN: "MRN-1002", FirstName: "Vik", LastName: "Shah"}
	require.NoError(t, f.patients.Create(ctx, other))

	_, err := f.svc.Admit(ctx, &model.AdmitRequest{
		PatientID: other.ID,
		WardID:    f.ward.ID,
		BedID:     f.bed.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// The losing admit must not disturb the existing admission.
	got, err := f.svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AdmissionStatusActive, got.Status)
	assert.Equal(t, first.PatientID, got.PatientID)
}

func TestConcurrentAdmitSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &model.Patient{MRN: "MRN-1002", FirstName: "Vik", LastName: "Shah"}
	require.NoError(t, f.patients.Create(ctx, other))

	patients := []uuid.UUID{f.patient.ID, other.ID}
	errs := make([]error, len(patients))
	var wg sync.WaitGroup
	wg.Add(len(patients))
	for i, pid := range patients {
		go func(i int, pid uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.svc.Admit(ctx, &model.AdmitRequest{
				PatientID: pid,
				WardID:    f.ward.ID,
				BedID:     f.bed.ID,
			})
		}(i, pid)
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

func TestDischargeTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adm := f.admit(t)
	_, err := f.svc.Discharge(ctx, adm.ID)
	require.NoError(t, err)

	_, err = f.svc.Discharge(ctx, adm.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestReadmitAfterDischarge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adm := f.admit(t)
	_, err := f.svc.Discharge(ctx, adm.ID)
	require.NoError(t, err)

	again := f.admit(t)
	assert.NotEqual(t, adm.ID, again.ID)
	assert.Equal(t, model.AdmissionStatusActive, again.Status)
}

func TestAdmitBedOutsideWard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherWard := &model.Ward{Name: "General B"}
	require.NoError(t, f.directory.CreateWard(ctx, otherWard))

	_, err := f.svc.Admit(ctx, &model.AdmitRequest{
		PatientID: f.patient.ID,
		WardID:    otherWard.ID,
		BedID:     f.bed.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdmitUnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Admit(context.Background(), &model.AdmitRequest{
		PatientID: uuid.New(),
		WardID:    f.ward.ID,
		BedID:     f.bed.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adm := f.admit(t)

	task, err := f.svc.CreateTask(ctx, adm.ID, &model.CreateTaskRequest{Title: "Morning vitals"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, task.Status)

	done, err := f.svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusDone, done.Status)

	_, err = f.svc.CompleteTask(ctx, task.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))

	_, err = f.svc.Discharge(ctx, adm.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateTask(ctx, adm.ID, &model.CreateTaskRequest{Title: "Late task"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))

	tasks, err := f.svc.ListTasks(ctx, adm.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
