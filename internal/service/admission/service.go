package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Service is the admission ledger. It exclusively owns admissions and
// is the single source of truth for bed occupancy.
type Service struct {
	repo      repository.AdmissionRepository
	patients  repository.PatientRepository
	directory repository.DirectoryRepository
}

func NewService(repo repository.AdmissionRepository, patients repository.PatientRepository, directory repository.DirectoryRepository) *Service {
	return &Service{
		repo:      repo,
		patients:  patients,
		directory: directory,
	}
}

// Admit places a patient into a bed. The occupancy check and the
// reservation are one atomic insert against the ledger's unique
// constraint; losing a race surfaces as a ConflictError with no
// admission created.
func (s *Service) Admit(ctx context.Context, req *model.AdmitRequest) (*model.Admission, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.directory.GetWard(ctx, req.WardID); err != nil {
		return nil, err
	}
	bed, err := s.directory.GetBed(ctx, req.BedID)
	if err != nil {
		return nil, err
	}
	if bed.WardID != req.WardID {
		return nil, apperrors.Validationf("bed %s does not belong to the requested ward", bed.Code)
	}
	if req.DoctorID != nil {
		if _, err := s.directory.GetDoctor(ctx, *req.DoctorID); err != nil {
			return nil, err
		}
	}

	admitTime := time.Now()
	if req.AdmitTime != nil {
		admitTime = *req.AdmitTime
	}

	admission := &model.Admission{
		PatientID: req.PatientID,
		WardID:    req.WardID,
		BedID:     req.BedID,
		DoctorID:  req.DoctorID,
		AdmitTime: admitTime,
		Status:    model.AdmissionStatusActive,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, admission); err != nil {
		return nil, err
	}
	return admission, nil
}

// Discharge moves the admission to its terminal state and frees the
// bed for the next Admit. Discharging twice is an InvalidStateError.
func (s *Service) Discharge(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	return s.repo.Discharge(ctx, id, time.Now())
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	return s.repo.Get(ctx, id)
}

// ListActive reads the latest committed ledger state; results are
// never served from a cache.
func (s *Service) ListActive(ctx context.Context, filter *model.AdmissionFilter) ([]*model.Admission, int, error) {
	return s.repo.ListActive(ctx, filter)
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Admission, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListForPatient(ctx, patientID)
}

// ActiveForPatient is the read-only query other components use to
// snapshot a patient's current placement.
func (s *Service) ActiveForPatient(ctx context.Context, patientID uuid.UUID) (*model.Admission, error) {
	return s.repo.ActiveForPatient(ctx, patientID)
}

// IsOccupied derives occupancy from the ledger.
func (s *Service) IsOccupied(ctx context.Context, bedID uuid.UUID) (bool, error) {
	if _, err := s.directory.GetBed(ctx, bedID); err != nil {
		return false, err
	}
	return s.repo.IsOccupied(ctx, bedID)
}

func (s *Service) CreateTask(ctx context.Context, admissionID uuid.UUID, req *model.CreateTaskRequest) (*model.AdmissionTask, error) {
	admission, err := s.repo.Get(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if admission.Status == model.AdmissionStatusDischarged {
		return nil, apperrors.InvalidState("cannot add tasks to a discharged admission", nil)
	}

	task := &model.AdmissionTask{
		AdmissionID: admissionID,
		Title:       req.Title,
		Details:     req.Details,
		DueDate:     req.DueDate,
		Status:      model.TaskStatusPending,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) CompleteTask(ctx context.Context, taskID uuid.UUID) (*model.AdmissionTask, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.TaskStatusDone {
		return nil, apperrors.InvalidState(fmt.Sprintf("task %s is already done", task.Title), nil)
	}

	task.Status = model.TaskStatusDone
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) ListTasks(ctx context.Context, admissionID uuid.UUID) ([]*model.AdmissionTask, error) {
	if _, err := s.repo.Get(ctx, admissionID); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx, admissionID)
}
