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

type directoryRepository struct{ s *Store }

func NewDirectoryRepository(s *Store) repository.DirectoryRepository {
	return &directoryRepository{s: s}
}

func (r *directoryRepository) CreateDepartment(ctx context.Context, dept *model.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	dept.ID = uuid.New()
	dept.CreatedAt = time.Now()
	cp := *dept
	r.s.departments[dept.ID] = &cp
	return nil
}

func (r *directoryRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.departments[id]
	if !ok {
		return nil, apperrors.NotFound("department", nil)
	}
	cp := *d
	return &cp, nil
}

func (r *directoryRepository) ListDepartments(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Department, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Department
	for _, d := range r.s.departments {
		if matchQuery(filter.Query, d.Name) {
			cp := *d
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *directoryRepository) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	cp := *doctor
	r.s.doctors[doctor.ID] = &cp
	return nil
}

func (r *directoryRepository) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	cp := *d
	return &cp, nil
}

func (r *directoryRepository) ListDoctors(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Doctor, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Doctor
	for _, d := range r.s.doctors {
		if !matchQuery(filter.Query, d.FullName) {
			continue
		}
		if filter.DepartmentID != nil && (d.DepartmentID == nil || *d.DepartmentID != *filter.DepartmentID) {
			continue
		}
		cp := *d
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].FullName < matched[j].FullName
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *directoryRepository) CreateWard(ctx context.Context, ward *model.Ward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ward.ID = uuid.New()
	ward.CreatedAt = time.Now()
	cp := *ward
	r.s.wards[ward.ID] = &cp
	return nil
}

func (r *directoryRepository) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.wards[id]
	if !ok {
		return nil, apperrors.NotFound("ward", nil)
	}
	cp := *w
	return &cp, nil
}

func (r *directoryRepository) ListWards(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Ward, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Ward
	for _, w := range r.s.wards {
		if !matchQuery(filter.Query, w.Name) {
			continue
		}
		if filter.DepartmentID != nil && (w.DepartmentID == nil || *w.DepartmentID != *filter.DepartmentID) {
			continue
		}
		cp := *w
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *directoryRepository) CreateBed(ctx context.Context, bed *model.Bed) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.beds {
		if b.WardID == bed.WardID && b.Code == bed.Code {
			return apperrors.Conflict("bed code already exists in ward", nil)
		}
	}

	bed.ID = uuid.New()
	bed.CreatedAt = time.Now()
	cp := *bed
	r.s.beds[bed.ID] = &cp
	return nil
}

func (r *directoryRepository) GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.beds[id]
	if !ok {
		return nil, apperrors.NotFound("bed", nil)
	}
	cp := *b
	cp.Occupied = r.s.bedOccupied(id)
	return &cp, nil
}

func (r *directoryRepository) ListBeds(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Bed, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Bed
	for _, b := range r.s.beds {
		if filter.WardID != nil && b.WardID != *filter.WardID {
			continue
		}
		cp := *b
		cp.Occupied = r.s.bedOccupied(b.ID)
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Code < matched[j].Code
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *directoryRepository) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.ID = uuid.New()
	item.IsActive = true
	item.CreatedAt = time.Now()
	cp := *item
	r.s.menuItems[item.ID] = &cp
	return nil
}

func (r *directoryRepository) GetMenuItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.menuItems[id]
	if !ok {
		return nil, apperrors.NotFound("menu item", nil)
	}
	cp := *m
	return &cp, nil
}

func (r *directoryRepository) ListMenuItems(ctx context.Context, filter *model.DirectoryFilter) ([]*model.MenuItem, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.MenuItem
	for _, m := range r.s.menuItems {
		if !matchQuery(filter.Query, m.Name) {
			continue
		}
		if filter.ActiveOnly && !m.IsActive {
			continue
		}
		cp := *m
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

// bedOccupied derives occupancy from the admissions; callers must hold
// the store lock.
func (s *Store) bedOccupied(bedID uuid.UUID) bool {
	for _, a := range s.admissions {
		if a.BedID == bedID && a.Status == model.AdmissionStatusActive {
			return true
		}
	}
	return false
}
