package access

import (
	"context"
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
	svc     *Service
	users   repository.AppUserRepository
	user    *model.AppUser
	patient *model.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	users := memory.NewAppUserRepository(store)
	patients := memory.NewPatientRepository(store)
	svc := NewService(memory.NewAccessRepository(store), users, patients)

	email := "guardian@example.com"
	user := &model.AppUser{Email: &email, Role: model.RoleGuardian, IsActive: true}
	require.NoError(t, users.Create(ctx, user))

	patient := &model.Patient{MRN: "MRN-2001", FirstName: "Kiran", LastName: "Nair"}
	require.NoError(t, patients.Create(ctx, patient))

	return &fixture{svc: svc, users: users, user: user, patient: patient}
}

func TestGrantAndCanView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.svc.CanView(ctx, f.user.ID, f.patient.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	grant, err := f.svc.Grant(ctx, &model.GrantAccessRequest{
		UserID:       f.user.ID,
		PatientID:    f.patient.ID,
		Relationship: model.RelationshipGuardian,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RelationshipGuardian, grant.Relationship)

	ok, err = f.svc.CanView(ctx, f.user.ID, f.patient.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Another user holds no grant.
	ok, err = f.svc.CanView(ctx, uuid.New(), f.patient.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegrantUpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Grant(ctx, &model.GrantAccessRequest{
		UserID:       f.user.ID,
		PatientID:    f.patient.ID,
		Relationship: model.RelationshipGuardian,
	})
	require.NoError(t, err)

	second, err := f.svc.Grant(ctx, &model.GrantAccessRequest{
		UserID:       f.user.ID,
		PatientID:    f.patient.ID,
		Relationship: model.RelationshipCaregiver,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.RelationshipCaregiver, second.Relationship)

	grants, err := f.svc.ListForPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, model.RelationshipCaregiver, grants[0].Relationship)
}

func TestGrantValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, &model.GrantAccessRequest{
		UserID:       f.user.ID,
		PatientID:    f.patient.ID,
		Relationship: "neighbor",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Grant(ctx, &model.GrantAccessRequest{
		UserID:       uuid.New(),
		PatientID:    f.patient.ID,
		Relationship: model.RelationshipSelf,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.Grant(ctx, &model.GrantAccessRequest{
		UserID:       f.user.ID,
		PatientID:    uuid.New(),
		Relationship: model.RelationshipSelf,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grant, err := f.svc.Grant(ctx, &model.GrantAccessRequest{
		UserID:       f.user.ID,
		PatientID:    f.patient.ID,
		Relationship: model.RelationshipSelf,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Revoke(ctx, grant.ID))

	ok, err := f.svc.CanView(ctx, f.user.ID, f.patient.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	err = f.svc.Revoke(ctx, grant.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Grant(ctx, &model.GrantAccessRequest{
		UserID:       f.user.ID,
		PatientID:    f.patient.ID,
		Relationship: model.RelationshipGuardian,
	})
	require.NoError(t, err)

	grants, err := f.svc.ListForUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, f.patient.ID, grants[0].PatientID)

	grants, err = f.svc.ListForUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, grants)
}
