package identity

import (
	"context"
	"strings"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	"github.com/healthvault/ops-api/pkg/auth"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
	"github.com/healthvault/ops-api/pkg/security"
)

// Service registers app users and exchanges credentials for tokens.
// Everything downstream trusts the Principal this package resolves.
type Service struct {
	repo   repository.AppUserRepository
	hasher security.PasswordHasher
	tokens *auth.TokenService
}

func NewService(repo repository.AppUserRepository, hasher security.PasswordHasher, tokens *auth.TokenService) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates an app user. At least one of email, phone, or
// username must be present so the account can be logged into later.
func (s *Service) Register(ctx context.Context, req *model.RegisterUserRequest) (*model.AppUser, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	phone := strings.TrimSpace(req.Phone)
	username := strings.TrimSpace(req.Username)
	if email == "" && phone == "" && username == "" {
		return nil, apperrors.Validationf("one of email, phone, or username is required")
	}
	if !req.Role.Valid() {
		return nil, apperrors.Validationf("invalid role %q", req.Role)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.AppUser{
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if email != "" {
		user.Email = &email
	}
	if phone != "" {
		user.Phone = &phone
	}
	if username != "" {
		user.Username = &username
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials against any of the user's identifiers and
// issues a token. Lookup and compare failures both collapse into the
// same Unauthorized so the response does not leak which part failed.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	user, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized(nil)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, User: user}, nil
}

// Resolve turns a bearer token into the principal behind the request.
func (s *Service) Resolve(ctx context.Context, token string) (auth.Principal, error) {
	principal, err := s.tokens.Validate(token)
	if err != nil {
		return auth.Principal{}, err
	}

	// Deactivated accounts keep valid tokens until expiry; reject them
	// at resolution time instead.
	user, err := s.repo.Get(ctx, principal.UserID)
	if err != nil {
		return auth.Principal{}, apperrors.Unauthorized(err)
	}
	if !user.IsActive {
		return auth.Principal{}, apperrors.Unauthorized(nil)
	}
	return principal, nil
}
