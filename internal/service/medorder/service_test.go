package medorder

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
	staff      uuid.UUID
	patient    *model.Patient
	admission  *model.Admission
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	admissions := memory.NewAdmissionRepository(store)
	patients := memory.NewPatientRepository(store)
	directory := memory.NewDirectoryRepository(store)
	svc := NewService(memory.NewMedicalOrderRepository(store), admissions)

	patient := &model.Patient{MRN: "MRN-3001", FirstName: "Asha", LastName: "Rao"}
	require.NoError(t, patients.Create(ctx, patient))

	ward := &model.Ward{Name: "General A"}
	require.NoError(t, directory.CreateWard(ctx, ward))
	bed := &model.Bed{WardID: ward.ID, Code: "A-01"}
	require.NoError(t, directory.CreateBed(ctx, bed))

	admission := seedAdmission(t, admissions, patient.ID, ward.ID, bed.ID)

	return &fixture{
		svc:        svc,
		admissions: admissions,
		staff:      uuid.New(),
		patient:    patient,
		admission:  admission,
	}
}

func seedAdmission(t *testing.T, admissions repository.AdmissionRepository, patientID, wardID, bedID uuid.UUID) *model.Admission {
	t.Helper()
	admission := &model.Admission{
		PatientID: patientID,
		WardID:    wardID,
		BedID:     bedID,
		Status:    model.AdmissionStatusActive,
	}
	require.NoError(t, admissions.Create(context.Background(), admission))
	return admission
}

func (f *fixture) issue(t *testing.T, orderType string) *model.MedicalOrder {
	t.Helper()
	order, err := f.svc.Issue(context.Background(), f.staff, &model.CreateMedicalOrderRequest{
		AdmissionID: f.admission.ID,
		OrderType:   orderType,
	})
	require.NoError(t, err)
	return order
}

func TestIssue(t *testing.T) {
	f := newFixture(t)

	order := f.issue(t, "lab")
	assert.Equal(t, model.MedicalOrderStatusOrdered, order.Status)
	assert.Equal(t, f.staff, order.CreatedBy)
	assert.Equal(t, f.patient.ID, order.PatientID)
	assert.False(t, order.CreatedAt.IsZero())

	got, err := f.svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "lab", got.OrderType)
	assert.Equal(t, f.patient.ID, got.PatientID)
}

func TestIssueUnknownAdmission(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Issue(context.Background(), f.staff, &model.CreateMedicalOrderRequest{
		AdmissionID: uuid.New(),
		OrderType:   "lab",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestIssueAfterDischarge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.admissions.Discharge(ctx, f.admission.ID, time.Now())
	require.NoError(t, err)

	_, err = f.svc.Issue(ctx, f.staff, &model.CreateMedicalOrderRequest{
		AdmissionID: f.admission.ID,
		OrderType:   "lab",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.issue(t, "medication")

	done, err := f.svc.SetStatus(ctx, order.ID, model.MedicalOrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.MedicalOrderStatusCompleted, done.Status)

	// Completed is terminal.
	_, err = f.svc.SetStatus(ctx, order.ID, model.MedicalOrderStatusCancelled)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))

	cancelled, err := f.svc.SetStatus(ctx, f.issue(t, "imaging").ID, model.MedicalOrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.MedicalOrderStatusCancelled, cancelled.Status)
}

func TestSetStatusBackToOrdered(t *testing.T) {
	f := newFixture(t)

	order := f.issue(t, "lab")
	_, err := f.svc.SetStatus(context.Background(), order.ID, model.MedicalOrderStatusOrdered)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lab := f.issue(t, "lab")
	f.issue(t, "medication")
	_, err := f.svc.SetStatus(ctx, lab.ID, model.MedicalOrderStatusCompleted)
	require.NoError(t, err)

	orders, total, err := f.svc.List(ctx, &model.MedicalOrderFilter{OrderType: "lab"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, lab.ID, orders[0].ID)

	completed := model.MedicalOrderStatusCompleted
	orders, _, err = f.svc.List(ctx, &model.MedicalOrderFilter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, lab.ID, orders[0].ID)

	orders, total, err = f.svc.List(ctx, &model.MedicalOrderFilter{PatientID: &f.patient.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, orders, 2)

	ghost := uuid.New()
	orders, total, err = f.svc.List(ctx, &model.MedicalOrderFilter{PatientID: &ghost})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, orders)

	_, _, err = f.svc.List(ctx, &model.MedicalOrderFilter{From: "last tuesday"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)

	first := f.issue(t, "lab")
	second := f.issue(t, "medication")
	third := f.issue(t, "imaging")

	orders, total, err := f.svc.List(context.Background(), &model.MedicalOrderFilter{
		AdmissionID: &f.admission.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, orders, 3)
	assert.Equal(t, third.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
	assert.Equal(t, first.ID, orders[2].ID)
}
