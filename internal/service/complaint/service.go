package complaint

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Service records complaints. The admission/ward/bed snapshot is
// captured at creation from the patient's current active admission so
// the record stays accurate after discharge.
type Service struct {
	repo       repository.ComplaintRepository
	admissions repository.AdmissionRepository
	patients   repository.PatientRepository
}

func NewService(repo repository.ComplaintRepository, admissions repository.AdmissionRepository, patients repository.PatientRepository) *Service {
	return &Service{
		repo:       repo,
		admissions: admissions,
		patients:   patients,
	}
}

func (s *Service) Create(ctx context.Context, reporter uuid.UUID, req *model.CreateComplaintRequest) (*model.Complaint, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	complaint := &model.Complaint{
		UserID:      reporter,
		PatientID:   req.PatientID,
		Category:    req.Category,
		Description: req.Description,
		Status:      model.ComplaintStatusOpen,
	}

	// Snapshot, not a live join: a patient without an active
	// admission simply files an unanchored complaint.
	if active, err := s.admissions.ActiveForPatient(ctx, req.PatientID); err == nil {
		complaint.AdmissionID = &active.ID
		complaint.WardID = &active.WardID
		complaint.BedID = &active.BedID
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	return s.repo.Get(ctx, id)
}

// SetStatus advances open -> in_progress -> resolved; resolving
// stamps resolved_at.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, next model.ComplaintStatus) (*model.Complaint, error) {
	complaint, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !complaint.Status.CanTransition(next) {
		return nil, apperrors.InvalidTransition(string(complaint.Status), string(next))
	}

	complaint.Status = next
	if next == model.ComplaintStatusResolved {
		now := time.Now()
		complaint.ResolvedAt = &now
	}
	if err := s.repo.Update(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

func (s *Service) List(ctx context.Context, filter *model.ComplaintFilter) ([]*model.Complaint, int, error) {
	return s.repo.List(ctx, filter)
}
