package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type medicalOrderRepository struct{ s *Store }

func NewMedicalOrderRepository(s *Store) repository.MedicalOrderRepository {
	return &medicalOrderRepository{s: s}
}

func (r *medicalOrderRepository) Create(ctx context.Context, order *model.MedicalOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	cp := *order
	r.s.medOrders[order.ID] = &cp
	return nil
}

func (r *medicalOrderRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.medOrders[id]
	if !ok {
		return nil, apperrors.NotFound("medical order", nil)
	}
	cp := *o
	r.s.projectPatient(&cp)
	return &cp, nil
}

func (r *medicalOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.MedicalOrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.medOrders[id]
	if !ok {
		return false, apperrors.NotFound("medical order", nil)
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *medicalOrderRepository) List(ctx context.Context, filter *model.MedicalOrderFilter) ([]*model.MedicalOrder, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.MedicalOrder
	for _, o := range r.s.medOrders {
		cp := *o
		r.s.projectPatient(&cp)

		if filter.AdmissionID != nil && cp.AdmissionID != *filter.AdmissionID {
			continue
		}
		if filter.PatientID != nil && cp.PatientID != *filter.PatientID {
			continue
		}
		if filter.OrderType != "" && cp.OrderType != filter.OrderType {
			continue
		}
		if filter.Status != nil && cp.Status != *filter.Status {
			continue
		}
		day := cp.CreatedAt.Format("2006-01-02")
		if filter.From != "" && day < filter.From {
			continue
		}
		if filter.To != "" && day > filter.To {
			continue
		}
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

// projectPatient fills PatientID from the owning admission, matching
// the join the postgres queries do.
func (s *Store) projectPatient(o *model.MedicalOrder) {
	if a, ok := s.admissions[o.AdmissionID]; ok {
		o.PatientID = a.PatientID
	}
}
