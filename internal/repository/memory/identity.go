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

type appUserRepository struct{ s *Store }

func NewAppUserRepository(s *Store) repository.AppUserRepository {
	return &appUserRepository{s: s}
}

func (r *appUserRepository) Create(ctx context.Context, user *model.AppUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
			return apperrors.Conflict("email already registered", nil)
		}
		if user.Username != nil && u.Username != nil && *u.Username == *user.Username {
			return apperrors.Conflict("username already registered", nil)
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *appUserRepository) Get(ctx context.Context, id uuid.UUID) (*model.AppUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	cp := *u
	return &cp, nil
}

func (r *appUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.AppUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if (u.Email != nil && *u.Email == identifier) ||
			(u.Phone != nil && *u.Phone == identifier) ||
			(u.Username != nil && *u.Username == identifier) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

type patientRepository struct{ s *Store }

func NewPatientRepository(s *Store) repository.PatientRepository {
	return &patientRepository{s: s}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.patients {
		if p.MRN == patient.MRN {
			return apperrors.Conflict("MRN "+patient.MRN+" already registered", nil)
		}
	}

	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	cp := *patient
	r.s.patients[patient.ID] = &cp
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[patient.ID]; !ok {
		return apperrors.NotFound("patient", nil)
	}
	cp := *patient
	r.s.patients[patient.ID] = &cp
	return nil
}

func (r *patientRepository) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Patient
	for _, p := range r.s.patients {
		if matchQuery(filter.Query, p.MRN, p.FirstName, p.LastName) {
			cp := *p
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LastName != matched[j].LastName {
			return matched[i].LastName < matched[j].LastName
		}
		return matched[i].FirstName < matched[j].FirstName
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}
