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

type admissionRepository struct{ s *Store }

func NewAdmissionRepository(s *Store) repository.AdmissionRepository {
	return &admissionRepository{s: s}
}

func (r *admissionRepository) Create(ctx context.Context, admission *model.Admission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Same guarantee as the partial unique index on
	// (bed_id) WHERE status='active'.
	if admission.Status == model.AdmissionStatusActive && r.s.bedOccupied(admission.BedID) {
		return apperrors.Conflict("bed already has an active admission", nil)
	}

	admission.ID = uuid.New()
	now := time.Now()
	admission.CreatedAt = now
	admission.UpdatedAt = now
	cp := *admission
	r.s.admissions[admission.ID] = &cp
	return nil
}

func (r *admissionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admissions[id]
	if !ok {
		return nil, apperrors.NotFound("admission", nil)
	}
	cp := *a
	return &cp, nil
}

func (r *admissionRepository) Discharge(ctx context.Context, id uuid.UUID, at time.Time) (*model.Admission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admissions[id]
	if !ok {
		return nil, apperrors.NotFound("admission", nil)
	}
	if a.Status == model.AdmissionStatusDischarged {
		return nil, apperrors.InvalidState("admission already discharged", nil)
	}

	a.Status = model.AdmissionStatusDischarged
	a.DischargeTime = &at
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (r *admissionRepository) ListActive(ctx context.Context, filter *model.AdmissionFilter) ([]*model.Admission, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Admission
	for _, a := range r.s.admissions {
		if a.Status != model.AdmissionStatusActive {
			continue
		}
		if filter.WardID != nil && a.WardID != *filter.WardID {
			continue
		}
		if filter.BedID != nil && a.BedID != *filter.BedID {
			continue
		}
		if filter.PatientQuery != "" {
			p, ok := r.s.patients[a.PatientID]
			if !ok || !matchQuery(filter.PatientQuery, p.MRN, p.FirstName, p.LastName) {
				continue
			}
		}
		cp := *a
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AdmitTime.After(matched[j].AdmitTime)
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *admissionRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Admission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Admission
	for _, a := range r.s.admissions {
		if a.PatientID == patientID {
			cp := *a
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AdmitTime.After(matched[j].AdmitTime)
	})
	return matched, nil
}

func (r *admissionRepository) ActiveForPatient(ctx context.Context, patientID uuid.UUID) (*model.Admission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var latest *model.Admission
	for _, a := range r.s.admissions {
		if a.PatientID != patientID || a.Status != model.AdmissionStatusActive {
			continue
		}
		if latest == nil || a.AdmitTime.After(latest.AdmitTime) {
			latest = a
		}
	}
	if latest == nil {
		return nil, apperrors.NotFound("active admission", nil)
	}
	cp := *latest
	return &cp, nil
}

func (r *admissionRepository) IsOccupied(ctx context.Context, bedID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.bedOccupied(bedID), nil
}

func (r *admissionRepository) CreateTask(ctx context.Context, task *model.AdmissionTask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task.ID = uuid.New()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	cp := *task
	r.s.tasks[task.ID] = &cp
	return nil
}

func (r *admissionRepository) GetTask(ctx context.Context, id uuid.UUID) (*model.AdmissionTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("task", nil)
	}
	cp := *t
	return &cp, nil
}

func (r *admissionRepository) UpdateTask(ctx context.Context, task *model.AdmissionTask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[task.ID]; !ok {
		return apperrors.NotFound("task", nil)
	}
	task.UpdatedAt = time.Now()
	cp := *task
	r.s.tasks[task.ID] = &cp
	return nil
}

func (r *admissionRepository) ListTasks(ctx context.Context, admissionID uuid.UUID) ([]*model.AdmissionTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.AdmissionTask
	for _, t := range r.s.tasks {
		if t.AdmissionID == admissionID {
			cp := *t
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}
