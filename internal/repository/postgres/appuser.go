package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
)

const appUserColumns = `id, email, phone, username, password_hash, role, is_active, created_at`

func (r *appUserRepository) Create(ctx context.Context, user *model.AppUser) error {
	query := `
		INSERT INTO app_user (id, email, phone, username, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.IsActive = true

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Phone, user.Username,
		user.PasswordHash, user.Role, user.IsActive, user.CreatedAt,
	)
	if err != nil {
		return translateConflict(err, "identifier already registered")
	}
	return nil
}

func (r *appUserRepository) Get(ctx context.Context, id uuid.UUID) (*model.AppUser, error) {
	var user model.AppUser
	err := r.db.GetContext(ctx, &user,
		`SELECT `+appUserColumns+` FROM app_user WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

// GetByIdentifier matches email, phone, or username.
func (r *appUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.AppUser, error) {
	query := `
		SELECT ` + appUserColumns + `
		FROM app_user
		WHERE email = $1 OR phone = $1 OR username = $1
		LIMIT 1
	`
	var user model.AppUser
	if err := r.db.GetContext(ctx, &user, query, identifier); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}
