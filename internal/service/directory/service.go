package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service owns the reference data: departments, doctors, wards, beds,
// menu items. Listings are cached briefly because reference data
// changes rarely; bed listings are exempt since they carry derived
// occupancy, which must always reflect the ledger.
type Service struct {
	repo  repository.DirectoryRepository
	cache *gocache.Cache
}

func NewService(repo repository.DirectoryRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) CreateDepartment(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	dept := &model.Department{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateDepartment(ctx, dept); err != nil {
		return nil, err
	}
	s.cache.Flush()
	return dept, nil
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	return s.repo.GetDepartment(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Department, int, error) {
	type cached struct {
		depts []*model.Department
		total int
	}
	key := cacheKey("departments", filter)
	if hit, ok := s.cache.Get(key); ok {
		c := hit.(cached)
		return c.depts, c.total, nil
	}

	depts, total, err := s.repo.ListDepartments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	s.cache.SetDefault(key, cached{depts: depts, total: total})
	return depts, total, nil
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if req.DepartmentID != nil {
		if _, err := s.repo.GetDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
	}
	doctor := &model.Doctor{
		DepartmentID:    req.DepartmentID,
		FullName:        req.FullName,
		Qualification:   req.Qualification,
		ExperienceYears: req.ExperienceYears,
	}
	if err := s.repo.CreateDoctor(ctx, doctor); err != nil {
		return nil, err
	}
	s.cache.Flush()
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Doctor, int, error) {
	type cached struct {
		doctors []*model.Doctor
		total   int
	}
	key := cacheKey("doctors", filter)
	if hit, ok := s.cache.Get(key); ok {
		c := hit.(cached)
		return c.doctors, c.total, nil
	}

	doctors, total, err := s.repo.ListDoctors(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	s.cache.SetDefault(key, cached{doctors: doctors, total: total})
	return doctors, total, nil
}

func (s *Service) CreateWard(ctx context.Context, req *model.CreateWardRequest) (*model.Ward, error) {
	if req.DepartmentID != nil {
		if _, err := s.repo.GetDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
	}
	ward := &model.Ward{
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Floor:        req.Floor,
		Notes:        req.Notes,
	}
	if err := s.repo.CreateWard(ctx, ward); err != nil {
		return nil, err
	}
	s.cache.Flush()
	return ward, nil
}

func (s *Service) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	return s.repo.GetWard(ctx, id)
}

func (s *Service) ListWards(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Ward, int, error) {
	type cached struct {
		wards []*model.Ward
		total int
	}
	key := cacheKey("wards", filter)
	if hit, ok := s.cache.Get(key); ok {
		c := hit.(cached)
		return c.wards, c.total, nil
	}

	wards, total, err := s.repo.ListWards(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	s.cache.SetDefault(key, cached{wards: wards, total: total})
	return wards, total, nil
}

func (s *Service) CreateBed(ctx context.Context, req *model.CreateBedRequest) (*model.Bed, error) {
	if _, err := s.repo.GetWard(ctx, req.WardID); err != nil {
		return nil, err
	}
	bed := &model.Bed{WardID: req.WardID, Code: req.Code}
	if err := s.repo.CreateBed(ctx, bed); err != nil {
		return nil, err
	}
	return bed, nil
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	return s.repo.GetBed(ctx, id)
}

// ListBeds is never cached: occupancy is derived from the admission
// ledger and must reflect the latest committed state.
func (s *Service) ListBeds(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Bed, int, error) {
	return s.repo.ListBeds(ctx, filter)
}

func (s *Service) CreateMenuItem(ctx context.Context, req *model.CreateMenuItemRequest) (*model.MenuItem, error) {
	category := req.Category
	if category == "" {
		category = "meal"
	}
	item := &model.MenuItem{
		Name:       req.Name,
		Category:   category,
		PriceCents: req.PriceCents,
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.cache.Flush()
	return item, nil
}

func (s *Service) ListMenuItems(ctx context.Context, filter *model.DirectoryFilter) ([]*model.MenuItem, int, error) {
	type cached struct {
		items []*model.MenuItem
		total int
	}
	key := cacheKey("menu", filter)
	if hit, ok := s.cache.Get(key); ok {
		c := hit.(cached)
		return c.items, c.total, nil
	}

	items, total, err := s.repo.ListMenuItems(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	s.cache.SetDefault(key, cached{items: items, total: total})
	return items, total, nil
}

func cacheKey(prefix string, filter *model.DirectoryFilter) string {
	dept, ward := "", ""
	if filter.DepartmentID != nil {
		dept = filter.DepartmentID.String()
	}
	if filter.WardID != nil {
		ward = filter.WardID.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s|%t|%d|%d",
		prefix, filter.Query, dept, ward, filter.ActiveOnly, filter.Page, filter.PageSize)
}
