package medorder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// Service issues medical orders (labs, medication, imaging) against
// admissions and runs their status machine.
type Service struct {
	repo       repository.MedicalOrderRepository
	admissions repository.AdmissionRepository
}

func NewService(repo repository.MedicalOrderRepository, admissions repository.AdmissionRepository) *Service {
	return &Service{
		repo:       repo,
		admissions: admissions,
	}
}

// Issue records a new order against an admission. Orders can only be
// issued while the admission is active.
func (s *Service) Issue(ctx context.Context, issuer uuid.UUID, req *model.CreateMedicalOrderRequest) (*model.MedicalOrder, error) {
	admission, err := s.admissions.Get(ctx, req.AdmissionID)
	if err != nil {
		return nil, err
	}
	if admission.Status != model.AdmissionStatusActive {
		return nil, apperrors.InvalidState("admission is not active", nil)
	}

	order := &model.MedicalOrder{
		AdmissionID: req.AdmissionID,
		PatientID:   admission.PatientID,
		CreatedBy:   issuer,
		OrderType:   req.OrderType,
		Status:      model.MedicalOrderStatusOrdered,
		Payload:     req.Payload,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.MedicalOrder, error) {
	return s.repo.Get(ctx, id)
}

// SetStatus moves an order to completed or cancelled. The move is a
// compare-and-swap so concurrent transitions cannot double-apply.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, next model.MedicalOrderStatus) (*model.MedicalOrder, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(next) {
		return nil, apperrors.InvalidTransition(string(order.Status), string(next))
	}

	ok, err := s.repo.UpdateStatus(ctx, id, order.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent writer moved the order first.
		return nil, apperrors.Conflict("order status changed concurrently", nil)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter *model.MedicalOrderFilter) ([]*model.MedicalOrder, int, error) {
	if filter.From != "" {
		if _, err := time.Parse(dateLayout, filter.From); err != nil {
			return nil, 0, apperrors.Validationf("malformed from date %q, want YYYY-MM-DD", filter.From)
		}
	}
	if filter.To != "" {
		if _, err := time.Parse(dateLayout, filter.To); err != nil {
			return nil, 0, apperrors.Validationf("malformed to date %q, want YYYY-MM-DD", filter.To)
		}
	}
	return s.repo.List(ctx, filter)
}
