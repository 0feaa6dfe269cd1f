package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/chainmarket/internal/models"
	"github.com/ignatzorin/chainmarket/internal/repository/common"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrStoreNotFound = errors.New("store not found")
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID возвращает пользователя по ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, ErrUserNotFound)
}

// GetStore возвращает магазин по ID.
func (r *UserRepository) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	return common.GetByID[models.Store](ctx, r.db, "stores", id, ErrStoreNotFound)
}

// UpdateWallet сохраняет адрес кошелька пользователя.
func (r *UserRepository) UpdateWallet(ctx context.Context, id uuid.UUID, wallet string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET wallet_address = $2, updated_at = NOW() WHERE id = $1
	`, id, wallet)
	if err != nil {
		return fmt.Errorf("user repository: update wallet %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: update wallet rows affected %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
