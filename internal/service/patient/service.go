package patient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Service manages patient master records. Patients are never
// hard-deleted; history references them.
type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Create registers a patient. MRN uniqueness is enforced by the
// store; a duplicate surfaces as a ConflictError.
func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	mrn := strings.TrimSpace(req.MRN)
	if mrn == "" {
		return nil, apperrors.Validationf("MRN is required")
	}

	patient := &model.Patient{
		MRN:        mrn,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Sex:        req.Sex,
		DOB:        req.DOB,
		BloodGroup: req.BloodGroup,
		Allergies:  req.Allergies,
		Address:    req.Address,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

// Update changes demographic fields only; the MRN is immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Sex != nil {
		patient.Sex = *req.Sex
	}
	if req.DOB != nil {
		patient.DOB = req.DOB
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error) {
	return s.repo.List(ctx, filter)
}
