package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	"github.com/healthvault/ops-api/internal/repository/memory"
	"github.com/healthvault/ops-api/pkg/auth"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
	"github.com/healthvault/ops-api/pkg/security"
)

func newService(t *testing.T) (*Service, repository.AppUserRepository) {
	t.Helper()
	users := memory.NewAppUserRepository(memory.NewStore())
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewService(users, security.NewBcryptHasher(bcrypt.MinCost), tokens), users
}

func registerReq() *model.RegisterUserRequest {
	return &model.RegisterUserRequest{
		Email:    "Asha.Rao@Example.com",
		Password: "s3cret-pass",
		Role:     model.RoleGuardian,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	require.NotNil(t, user.Email)
	assert.Equal(t, "asha.rao@example.com", *user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Identifier: "asha.rao@example.com",
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestRegisterByUsernameOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &model.RegisterUserRequest{
		Username: "frontdesk",
		Password: "s3cret-pass",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)
	assert.Nil(t, user.Email)

	_, err = svc.Login(ctx, &model.LoginRequest{Identifier: "frontdesk", Password: "s3cret-pass"})
	require.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterUserRequest{
		Password: "s3cret-pass",
		Role:     model.RoleGuardian,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	req := registerReq()
	req.Role = "superuser"
	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	req = registerReq()
	req.Password = "short"
	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestLoginRejections(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	// Wrong password and unknown identifier look identical to a caller.
	_, err = svc.Login(ctx, &model.LoginRequest{
		Identifier: "asha.rao@example.com",
		Password:   "wrong-pass",
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode())

	_, err = svc.Login(ctx, &model.LoginRequest{
		Identifier: "nobody@example.com",
		Password:   "s3cret-pass",
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode())

	// Deactivated accounts cannot log in even with good credentials.
	hash, err := security.NewBcryptHasher(bcrypt.MinCost).Hash("s3cret-pass")
	require.NoError(t, err)
	username := "dormant"
	require.NoError(t, users.Create(ctx, &model.AppUser{
		Username:     &username,
		PasswordHash: hash,
		Role:         model.RoleGuardian,
		IsActive:     false,
	}))
	_, err = svc.Login(ctx, &model.LoginRequest{Identifier: "dormant", Password: "s3cret-pass"})
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode())
}

func TestResolve(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &model.LoginRequest{
		Identifier: "asha.rao@example.com",
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)

	principal, err := svc.Resolve(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, string(model.RoleGuardian), principal.Role)

	_, err = svc.Resolve(ctx, "not-a-token")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode())
}

func TestResolveRejectsForeignToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// A validly signed token for a user this system never registered.
	other := auth.NewTokenService("test-secret", time.Hour)
	token, err := other.Issue(uuid.New(), "staff")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, token)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.StatusCode())
}
