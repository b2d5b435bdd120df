package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Service maintains the many-to-many grants between app identities
// and patients.
type Service struct {
	repo     repository.AccessRepository
	users    repository.AppUserRepository
	patients repository.PatientRepository
}

func NewService(repo repository.AccessRepository, users repository.AppUserRepository, patients repository.PatientRepository) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		patients: patients,
	}
}

// Grant upserts: an existing (user, patient) pair gets its
// relationship updated in place rather than a duplicate row.
func (s *Service) Grant(ctx context.Context, req *model.GrantAccessRequest) (*model.AccessGrant, error) {
	if !req.Relationship.Valid() {
		return nil, apperrors.Validationf("unknown relationship %q", req.Relationship)
	}
	if _, err := s.users.Get(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	grant := &model.AccessGrant{
		UserID:       req.UserID,
		PatientID:    req.PatientID,
		Relationship: req.Relationship,
	}
	if err := s.repo.Upsert(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

// Revoke removes the grant outright.
func (s *Service) Revoke(ctx context.Context, grantID uuid.UUID) error {
	return s.repo.Delete(ctx, grantID)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AccessGrant, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AccessGrant, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListForPatient(ctx, patientID)
}

// CanView reports whether the user holds any grant for the patient.
// Other components consult this for non-staff reads.
func (s *Service) CanView(ctx context.Context, userID, patientID uuid.UUID) (bool, error) {
	grants, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, grant := range grants {
		if grant.PatientID == patientID {
			return true, nil
		}
	}
	return false, nil
}
