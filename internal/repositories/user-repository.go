package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"umroh-system/internal/entities"
	"umroh-system/pkg/database/postgresql"
	apperrors "umroh-system/pkg/errors"
)

type UserRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByID(ctx context.Context, id int) (*entities.User, error)
}

type UserRepository struct {
	ds     *postgresql.DataSource
	logger *zap.Logger
}

func NewUserRepository(ds *postgresql.DataSource, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{ds: ds, logger: logger}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var u entities.User
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			SELECT id, email, full_name, role, password_hash, phone, is_active, created_at
			FROM users WHERE email = $1 AND is_active`, email).
			Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash, &u.Phone, &u.IsActive, &u.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidCredential
		}
		return nil, apperrors.Internal(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*entities.User, error) {
	var u entities.User
	err := r.ds.ReadQuery(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `
			SELECT id, email, full_name, role, password_hash, phone, is_active, created_at
			FROM users WHERE id = $1`, id).
			Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash, &u.Phone, &u.IsActive, &u.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Internal(err)
	}
	return &u, nil
}
