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

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPending = errors.New("order is not pending")
)

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create сохраняет новый заказ с уже зафиксированной разбивкой комиссии.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	var created models.Order
	query := `
		INSERT INTO orders (buyer_id, store_id, seller_id, currency, amount, fee_percent, fee_amount, seller_payout, status, buyer_wallet)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *
	`
	err := r.db.GetContext(ctx, &created, query,
		order.BuyerID, order.StoreID, order.SellerID, order.Currency,
		order.Amount, order.FeePercent, order.FeeAmount, order.SellerPayout,
		models.OrderStatusPending, order.BuyerWallet)
	if err != nil {
		return nil, fmt.Errorf("order repository: create %w", err)
	}
	return &created, nil
}

// GetByID возвращает заказ по ID.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}
	return &order, nil
}

// MarkCompleted переводит заказ pending -> completed и сохраняет ссылку
// на транзакцию сети. Условный UPDATE: завершённые и провальные заказы
// не перезаписываются.
func (r *OrderRepository) MarkCompleted(ctx context.Context, id uuid.UUID, proof string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, payment_proof = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`, id, models.OrderStatusCompleted, proof, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("order repository: mark completed %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("order repository: mark completed rows affected %w", err)
	}
	if affected == 0 {
		return ErrOrderNotPending
	}
	return nil
}

// MarkFailed переводит заказ pending -> failed после провала верификации.
func (r *OrderRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`, id, models.OrderStatusFailed, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("order repository: mark failed %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("order repository: mark failed rows affected %w", err)
	}
	if affected == 0 {
		return ErrOrderNotPending
	}
	return nil
}

// ListByBuyer возвращает заказы покупателя, новые сначала.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, buyerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("order repository: list by buyer %w", err)
	}
	return orders, nil
}

// ListBySeller возвращает заказы по магазинам продавца, новые сначала.
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders WHERE seller_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("order repository: list by seller %w", err)
	}
	return orders, nil
}

// OrderSums — агрегаты по завершённым заказам продавца.
type OrderSums struct {
	TotalRevenue float64 `db:"total_revenue"`
	FeeWithheld  float64 `db:"fee_withheld"`
	SellerShare  float64 `db:"seller_share"`
}

// SumsBySeller считает выручку, удержанную комиссию и долю продавца
// по всем его завершённым заказам.
func (r *OrderRepository) SumsBySeller(ctx context.Context, sellerID uuid.UUID) (*OrderSums, error) {
	var sums OrderSums
	err := r.db.GetContext(ctx, &sums, `
		SELECT
			COALESCE(SUM(amount), 0)        AS total_revenue,
			COALESCE(SUM(fee_amount), 0)    AS fee_withheld,
			COALESCE(SUM(seller_payout), 0) AS seller_share
		FROM orders
		WHERE seller_id = $1 AND status = $2
	`, sellerID, models.OrderStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("order repository: sums by seller %w", err)
	}
	return &sums, nil
}
