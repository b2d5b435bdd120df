package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
)

func (r *directoryRepository) CreateDepartment(ctx context.Context, dept *model.Department) error {
	query := `INSERT INTO department (id, name, description, created_at) VALUES ($1, $2, $3, $4)`

	dept.ID = uuid.New()
	dept.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query, dept.ID, dept.Name, dept.Description, dept.CreatedAt); err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *directoryRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var dept model.Department
	err := r.db.GetContext(ctx, &dept,
		`SELECT id, name, description, created_at FROM department WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "department")
	}
	return &dept, nil
}

func (r *directoryRepository) ListDepartments(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Department, int, error) {
	where := " FROM department WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.Query != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argCount)
		args = append(args, "%"+filter.Query+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count departments: %w", err)
	}

	query := "SELECT id, name, description, created_at" + where +
		fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	depts := []*model.Department{}
	if err := r.db.SelectContext(ctx, &depts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, total, nil
}

func (r *directoryRepository) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctor (id, department_id, full_name, qualification, experience_years, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query,
		doctor.ID, doctor.DepartmentID, doctor.FullName,
		doctor.Qualification, doctor.ExperienceYears, doctor.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *directoryRepository) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor,
		`SELECT id, department_id, full_name, qualification, experience_years, created_at
		 FROM doctor WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "doctor")
	}
	return &doctor, nil
}

func (r *directoryRepository) ListDoctors(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Doctor, int, error) {
	where := " FROM doctor WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.Query != "" {
		where += fmt.Sprintf(" AND full_name ILIKE $%d", argCount)
		args = append(args, "%"+filter.Query+"%")
		argCount++
	}
	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND department_id = $%d", argCount)
		args = append(args, *filter.DepartmentID)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	query := "SELECT id, department_id, full_name, qualification, experience_years, created_at" +
		where + fmt.Sprintf(" ORDER BY full_name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, total, nil
}

func (r *directoryRepository) CreateWard(ctx context.Context, ward *model.Ward) error {
	query := `
		INSERT INTO ward (id, department_id, name, floor, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	ward.ID = uuid.New()
	ward.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query,
		ward.ID, ward.DepartmentID, ward.Name, ward.Floor, ward.Notes, ward.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create ward: %w", err)
	}
	return nil
}

func (r *directoryRepository) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	var ward model.Ward
	err := r.db.GetContext(ctx, &ward,
		`SELECT id, department_id, name, floor, notes, created_at FROM ward WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "ward")
	}
	return &ward, nil
}

func (r *directoryRepository) ListWards(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Ward, int, error) {
	where := " FROM ward WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.Query != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argCount)
		args = append(args, "%"+filter.Query+"%")
		argCount++
	}
	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND department_id = $%d", argCount)
		args = append(args, *filter.DepartmentID)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count wards: %w", err)
	}

	query := "SELECT id, department_id, name, floor, notes, created_at" + where +
		fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	wards := []*model.Ward{}
	if err := r.db.SelectContext(ctx, &wards, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list wards: %w", err)
	}
	return wards, total, nil
}

func (r *directoryRepository) CreateBed(ctx context.Context, bed *model.Bed) error {
	query := `INSERT INTO bed (id, ward_id, code, created_at) VALUES ($1, $2, $3, $4)`

	bed.ID = uuid.New()
	bed.CreatedAt = time.Now()

	if _, err := r.db.ExecContext(ctx, query, bed.ID, bed.WardID, bed.Code, bed.CreatedAt); err != nil {
		return translateConflict(err, fmt.Sprintf("bed code %s already exists in ward", bed.Code))
	}
	return nil
}

// Bed reads derive occupancy from the admission ledger inline; the
// bed table itself has no occupancy column.
func (r *directoryRepository) GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	query := `
		SELECT b.id, b.ward_id, b.code, b.created_at,
		       EXISTS (
		           SELECT 1 FROM admission a
		           WHERE a.bed_id = b.id AND a.status = 'active'
		       ) AS occupied
		FROM bed b WHERE b.id = $1
	`
	var bed model.Bed
	if err := r.db.GetContext(ctx, &bed, query, id); err != nil {
		return nil, notFoundOr(err, "bed")
	}
	return &bed, nil
}

func (r *directoryRepository) ListBeds(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Bed, int, error) {
	where := " FROM bed b WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.WardID != nil {
		where += fmt.Sprintf(" AND b.ward_id = $%d", argCount)
		args = append(args, *filter.WardID)
		argCount++
	}
	if filter.Query != "" {
		where += fmt.Sprintf(" AND b.code ILIKE $%d", argCount)
		args = append(args, "%"+filter.Query+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count beds: %w", err)
	}

	query := `
		SELECT b.id, b.ward_id, b.code, b.created_at,
		       EXISTS (
		           SELECT 1 FROM admission a
		           WHERE a.bed_id = b.id AND a.status = 'active'
		       ) AS occupied
	` + where + fmt.Sprintf(" ORDER BY b.code ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	beds := []*model.Bed{}
	if err := r.db.SelectContext(ctx, &beds, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list beds: %w", err)
	}
	return beds, total, nil
}

func (r *directoryRepository) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu_item (id, name, category, price_cents, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.IsActive = true

	if _, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Category, item.PriceCents, item.IsActive, item.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

func (r *directoryRepository) GetMenuItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.GetContext(ctx, &item,
		`SELECT id, name, category, price_cents, is_active, created_at FROM menu_item WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "menu item")
	}
	return &item, nil
}

func (r *directoryRepository) ListMenuItems(ctx context.Context, filter *model.DirectoryFilter) ([]*model.MenuItem, int, error) {
	where := " FROM menu_item WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.ActiveOnly {
		where += " AND is_active = TRUE"
	}
	if filter.Query != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argCount)
		args = append(args, "%"+filter.Query+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count menu items: %w", err)
	}

	query := "SELECT id, name, category, price_cents, is_active, created_at" + where +
		fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	items := []*model.MenuItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, total, nil
}
