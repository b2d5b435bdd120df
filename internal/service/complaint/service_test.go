package complaint

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	"github.com/healthvault/ops-api/internal/repository/memory"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type fixture struct {
	svc        *Service
	admissions repository.AdmissionRepository
	patient    *model.Patient
	ward       *model.Ward
	bed        *model.Bed
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	patients := memory.NewPatientRepository(store)
	directory := memory.NewDirectoryRepository(store)
	admissions := memory.NewAdmissionRepository(store)
	svc := NewService(memory.NewComplaintRepository(store), admissions, patients)

	patient := &model.Patient{MRN: "MRN-3001", FirstName: "Ravi", LastName: "Menon"}
	require.NoError(t, patients.Create(ctx, patient))

	ward := &model.Ward{Name: "General C"}
	require.NoError(t, directory.CreateWard(ctx, ward))
	bed := &model.Bed{WardID: ward.ID, Code: "C-07"}
	require.NoError(t, directory.CreateBed(ctx, bed))

	return &fixture{svc: svc, admissions: admissions, patient: patient, ward: ward, bed: bed}
}

func (f *fixture) admit(t *testing.T) *model.Admission {
	t.Helper()
	adm := &model.Admission{
		PatientID: f.patient.ID,
		WardID:    f.ward.ID,
		BedID:     f.bed.ID,
		Status:    model.AdmissionStatusActive,
		AdmitTime: time.Now(),
	}
	require.NoError(t, f.admissions.Create(context.Background(), adm))
	return adm
}

func TestCreateSnapshotsActiveAdmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adm := f.admit(t)

	complaint, err := f.svc.Create(ctx, uuid.New(), &model.CreateComplaintRequest{
		PatientID:   f.patient.ID,
		Category:    "food",
		Description: "Lunch arrived cold.",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ComplaintStatusOpen, complaint.Status)
	require.NotNil(t, complaint.AdmissionID)
	assert.Equal(t, adm.ID, *complaint.AdmissionID)
	require.NotNil(t, complaint.WardID)
	assert.Equal(t, f.ward.ID, *complaint.WardID)
	require.NotNil(t, complaint.BedID)
	assert.Equal(t, f.bed.ID, *complaint.BedID)

	// The snapshot survives discharge.
	_, err = f.admissions.Discharge(ctx, adm.ID, time.Now())
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, complaint.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AdmissionID)
	assert.Equal(t, adm.ID, *got.AdmissionID)
}

func TestCreateWithoutAdmission(t *testing.T) {
	f := newFixture(t)

	complaint, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateComplaintRequest{
		PatientID:   f.patient.ID,
		Category:    "billing",
		Description: "Charged twice for the same lab test.",
	})
	require.NoError(t, err)
	assert.Nil(t, complaint.AdmissionID)
	assert.Nil(t, complaint.WardID)
	assert.Nil(t, complaint.BedID)
}

func TestCreateUnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateComplaintRequest{
		PatientID:   uuid.New(),
		Description: "No such patient.",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	complaint, err := f.svc.Create(ctx, uuid.New(), &model.CreateComplaintRequest{
		PatientID:   f.patient.ID,
		Description: "Noisy ward at night.",
	})
	require.NoError(t, err)

	inProgress, err := f.svc.SetStatus(ctx, complaint.ID, model.ComplaintStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintStatusInProgress, inProgress.Status)
	assert.Nil(t, inProgress.ResolvedAt)

	resolved, err := f.svc.SetStatus(ctx, complaint.ID, model.ComplaintStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintStatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)

	// Resolved is terminal.
	_, err = f.svc.SetStatus(ctx, complaint.ID, model.ComplaintStatusOpen)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestResolveDirectlyFromOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	complaint, err := f.svc.Create(ctx, uuid.New(), &model.CreateComplaintRequest{
		PatientID:   f.patient.ID,
		Description: "Wrong name on the wristband.",
	})
	require.NoError(t, err)

	resolved, err := f.svc.SetStatus(ctx, complaint.ID, model.ComplaintStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, model.ComplaintStatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reporter := uuid.New()
	_, err := f.svc.Create(ctx, reporter, &model.CreateComplaintRequest{
		PatientID:   f.patient.ID,
		Description: "First complaint.",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, uuid.New(), &model.CreateComplaintRequest{
		PatientID:   f.patient.ID,
		Description: "Second complaint.",
	})
	require.NoError(t, err)

	rows, total, err := f.svc.List(ctx, &model.ComplaintFilter{UserID: &reporter})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, reporter, rows[0].UserID)

	rows, total, err = f.svc.List(ctx, &model.ComplaintFilter{PatientID: &f.patient.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, rows, 2)
}
