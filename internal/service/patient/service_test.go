package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository/memory"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

func newService() *Service {
	return NewService(memory.NewPatientRepository(memory.NewStore()))
}

func TestCreate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	patient, err := svc.Create(ctx, &model.CreatePatientRequest{
		MRN:       "  MRN-5001  ",
		FirstName: "Devi",
		LastName:  "Kumar",
	})
	require.NoError(t, err)
	assert.Equal(t, "MRN-5001", patient.MRN)
	assert.NotEqual(t, uuid.Nil, patient.ID)

	_, err = svc.Create(ctx, &model.CreatePatientRequest{MRN: "   ", FirstName: "X"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateDuplicateMRN(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreatePatientRequest{MRN: "MRN-5001", FirstName: "Devi"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreatePatientRequest{MRN: "MRN-5001", FirstName: "Other"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdateKeepsMRN(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	patient, err := svc.Create(ctx, &model.CreatePatientRequest{
		MRN:       "MRN-5002",
		FirstName: "Devi",
		LastName:  "Kumar",
	})
	require.NoError(t, err)

	blood := "B+"
	last := "Kumari"
	updated, err := svc.Update(ctx, patient.ID, &model.UpdatePatientRequest{
		LastName:   &last,
		BloodGroup: &blood,
	})
	require.NoError(t, err)
	assert.Equal(t, "MRN-5002", updated.MRN)
	assert.Equal(t, "Devi", updated.FirstName)
	assert.Equal(t, "Kumari", updated.LastName)
	assert.Equal(t, "B+", updated.BloodGroup)

	_, err = svc.Update(ctx, uuid.New(), &model.UpdatePatientRequest{LastName: &last})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListSearch(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreatePatientRequest{MRN: "MRN-5003", FirstName: "Asha", LastName: "Rao"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.CreatePatientRequest{MRN: "MRN-5004", FirstName: "Vik", LastName: "Shah"})
	require.NoError(t, err)

	rows, total, err := svc.List(ctx, &model.PatientFilter{Query: "rao"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha", rows[0].FirstName)

	_, total, err = svc.List(ctx, &model.PatientFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestListOrderedByName(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, p := range []struct{ mrn, first, last string }{
		{"MRN-5010", "Vik", "Shah"},
		{"MRN-5011", "Asha", "Rao"},
		{"MRN-5012", "Devi", "Kumar"},
		{"MRN-5013", "Anil", "Rao"},
	} {
		_, err := svc.Create(ctx, &model.CreatePatientRequest{MRN: p.mrn, FirstName: p.first, LastName: p.last})
		require.NoError(t, err)
	}

	rows, _, err := svc.List(ctx, &model.PatientFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Kumar", rows[0].LastName)
	assert.Equal(t, "Anil", rows[1].FirstName)
	assert.Equal(t, "Asha", rows[2].FirstName)
	assert.Equal(t, "Shah", rows[3].LastName)
}
