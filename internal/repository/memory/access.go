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

type accessRepository struct{ s *Store }

func NewAccessRepository(s *Store) repository.AccessRepository {
	return &accessRepository{s: s}
}

func (r *accessRepository) Upsert(ctx context.Context, grant *model.AccessGrant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for _, g := range r.s.grants {
		if g.UserID == grant.UserID && g.PatientID == grant.PatientID {
			g.Relationship = grant.Relationship
			g.UpdatedAt = now
			*grant = *g
			return nil
		}
	}

	grant.ID = uuid.New()
	grant.CreatedAt = now
	grant.UpdatedAt = now
	cp := *grant
	r.s.grants[grant.ID] = &cp
	return nil
}

func (r *accessRepository) Get(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.grants[id]
	if !ok {
		return nil, apperrors.NotFound("access grant", nil)
	}
	cp := *g
	return &cp, nil
}

func (r *accessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.grants[id]; !ok {
		return apperrors.NotFound("access grant", nil)
	}
	delete(r.s.grants, id)
	return nil
}

func (r *accessRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AccessGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.AccessGrant
	for _, g := range r.s.grants {
		if g.UserID == userID {
			cp := *g
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *accessRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AccessGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.AccessGrant
	for _, g := range r.s.grants {
		if g.PatientID == patientID {
			cp := *g
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}
