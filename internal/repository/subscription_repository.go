package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/chainmarket/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetActivePlan возвращает тариф действующей подписки продавца.
// Подписка действует, пока активна и не истекла; NULL в expires_at
// означает бессрочную подписку.
func (r *SubscriptionRepository) GetActivePlan(ctx context.Context, sellerID uuid.UUID) (string, error) {
	var plan string
	err := r.db.GetContext(ctx, &plan, `
		SELECT plan FROM subscriptions
		WHERE seller_id = $1 AND is_active = TRUE
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT 1
	`, sellerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSubscriptionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("subscription repository: get active plan %w", err)
	}
	return plan, nil
}

// GetBySeller возвращает последнюю подписку продавца независимо от статуса.
func (r *SubscriptionRepository) GetBySeller(ctx context.Context, sellerID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.GetContext(ctx, &sub, `
		SELECT * FROM subscriptions WHERE seller_id = $1 ORDER BY created_at DESC LIMIT 1
	`, sellerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("subscription repository: get by seller %w", err)
	}
	return &sub, nil
}
