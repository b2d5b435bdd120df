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

type complaintRepository struct{ s *Store }

func NewComplaintRepository(s *Store) repository.ComplaintRepository {
	return &complaintRepository{s: s}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	complaint.ID = uuid.New()
	complaint.CreatedAt = time.Now()
	cp := *complaint
	r.s.complaints[complaint.ID] = &cp
	return nil
}

func (r *complaintRepository) Get(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.complaints[id]
	if !ok {
		return nil, apperrors.NotFound("complaint", nil)
	}
	cp := *c
	return &cp, nil
}

func (r *complaintRepository) Update(ctx context.Context, complaint *model.Complaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.complaints[complaint.ID]; !ok {
		return apperrors.NotFound("complaint", nil)
	}
	cp := *complaint
	r.s.complaints[complaint.ID] = &cp
	return nil
}

func (r *complaintRepository) List(ctx context.Context, filter *model.ComplaintFilter) ([]*model.Complaint, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Complaint
	for _, c := range r.s.complaints {
		if filter.PatientID != nil && c.PatientID != *filter.PatientID {
			continue
		}
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}
