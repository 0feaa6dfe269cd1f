package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/chainmarket/internal/models"
	"github.com/ignatzorin/chainmarket/internal/repository/common"
)

var (
	ErrWithdrawalNotFound       = errors.New("withdrawal not found")
	ErrOpenWithdrawalExists     = errors.New("seller already has an open withdrawal")
	ErrInsufficientUnallocated  = errors.New("not enough unallocated completed orders")
	ErrAllocationConflict       = errors.New("orders were allocated concurrently")
	ErrWithdrawalAlreadyDecided = errors.New("withdrawal is already decided")
	ErrWithdrawalNotPending     = errors.New("withdrawal is not pending")
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникальности.
// На него опирается частичный индекс "одна открытая заявка на продавца".
const uniqueViolation = "23505"

type WithdrawalRepository struct {
	db *sqlx.DB
}

func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// CreateWithAllocation атомарно создаёт заявку и закрепляет за ней
// завершённые неразмеченные заказы продавца, старые сначала. Заказ —
// неделимая единица аллокации: заказ, на котором сумма переваливает
// запрошенную, включается целиком. Любая ошибка откатывает всё:
// заявка без аллокации существовать не должна.
func (r *WithdrawalRepository) CreateWithAllocation(ctx context.Context, sellerID uuid.UUID, amount float64, currency string) (*models.WithdrawalRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var w models.WithdrawalRequest
	err = tx.GetContext(ctx, &w, `
		INSERT INTO withdrawals (seller_id, amount, currency, status)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, sellerID, amount, currency, models.WithdrawalStatusPending)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrOpenWithdrawalExists
		}
		return nil, fmt.Errorf("withdrawal repository: create %w", err)
	}

	// Блокируем кандидатов на аллокацию до конца транзакции, чтобы
	// конкурентная заявка не растащила те же заказы.
	var candidates []allocationCandidate
	err = tx.SelectContext(ctx, &candidates, `
		SELECT id, seller_payout FROM orders
		WHERE seller_id = $1 AND status = $2 AND currency = $3
		  AND withdrawal_id IS NULL AND withdrawn = FALSE
		ORDER BY created_at ASC
		FOR UPDATE
	`, sellerID, models.OrderStatusCompleted, currency)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: select candidates %w", err)
	}

	picked, ok := pickAllocation(candidates, amount)
	if !ok {
		return nil, ErrInsufficientUnallocated
	}

	ids := make([]string, len(picked))
	for i, id := range picked {
		ids[i] = id.String()
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET withdrawal_id = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[]) AND withdrawal_id IS NULL
	`, w.ID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: allocate orders %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: allocate rows affected %w", err)
	}
	if affected != int64(len(picked)) {
		return nil, ErrAllocationConflict
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("withdrawal repository: commit %w", err)
	}

	w.OrderIDs = picked
	return &w, nil
}

// allocationCandidate — завершённый неразмеченный заказ, претендующий
// на попадание в заявку.
type allocationCandidate struct {
	ID           uuid.UUID `db:"id"`
	SellerPayout float64   `db:"seller_payout"`
}

// pickAllocation жадно набирает заказы, старые сначала, пока их суммарная
// доля не покроет запрошенную сумму. Заказ неделим: последний включается
// целиком, даже если сумма перекрывается с запасом. Второе значение false,
// если заказов не хватило.
func pickAllocation(candidates []allocationCandidate, amount float64) ([]uuid.UUID, bool) {
	var (
		picked []uuid.UUID
		total  float64
	)
	for _, c := range candidates {
		picked = append(picked, c.ID)
		total += c.SellerPayout
		if total >= amount {
			return picked, true
		}
	}
	return nil, false
}

// GetByID возвращает заявку вместе со списком закреплённых заказов.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := r.db.GetContext(ctx, &w, `SELECT * FROM withdrawals WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: get by id %w", err)
	}

	if err := r.db.SelectContext(ctx, &w.OrderIDs, `
		SELECT id FROM orders WHERE withdrawal_id = $1 ORDER BY created_at ASC
	`, id); err != nil {
		return nil, fmt.Errorf("withdrawal repository: load order ids %w", err)
	}
	return &w, nil
}

// ListBySeller возвращает заявки продавца, новые сначала.
func (r *WithdrawalRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.WithdrawalRequest, error) {
	var withdrawals []models.WithdrawalRequest
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE seller_id = $1 ORDER BY requested_at DESC LIMIT $2 OFFSET $3
	`, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: list by seller %w", err)
	}
	return withdrawals, nil
}

// ListOpen возвращает открытые заявки для операторской очереди, старые сначала.
func (r *WithdrawalRepository) ListOpen(ctx context.Context, limit, offset int) ([]models.WithdrawalRequest, error) {
	var withdrawals []models.WithdrawalRequest
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE status IN ($1, $2) ORDER BY requested_at ASC LIMIT $3 OFFSET $4
	`, models.WithdrawalStatusPending, models.WithdrawalStatusProcessing, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: list open %w", err)
	}
	return withdrawals, nil
}

// Hold переводит заявку pending -> processing, пока оператор готовит выплату.
func (r *WithdrawalRepository) Hold(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	var w *models.WithdrawalRequest
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		w, err = lockWithdrawal(ctx, tx, id)
		if err != nil {
			return err
		}
		if w.Status != models.WithdrawalStatusPending {
			return ErrWithdrawalNotPending
		}

		_, err = tx.ExecContext(ctx, `UPDATE withdrawals SET status = $2 WHERE id = $1`,
			id, models.WithdrawalStatusProcessing)
		if err != nil {
			return fmt.Errorf("withdrawal repository: hold %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.Status = models.WithdrawalStatusProcessing
	return w, nil
}

// Approve завершает заявку: ставит статус completed, сохраняет
// подтверждение выплаты и помечает закреплённые заказы выплаченными.
// Решение принимается только по открытой заявке.
func (r *WithdrawalRepository) Approve(ctx context.Context, id uuid.UUID, proof string, notes *string) (*models.WithdrawalRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: begin tx %w", err)
	}
	defer tx.Rollback()

	w, err := lockWithdrawal(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !w.IsOpen() {
		return nil, ErrWithdrawalAlreadyDecided
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE withdrawals
		SET status = $2, payout_proof = $3, notes = COALESCE($4, notes), processed_at = $5, completed_at = $5
		WHERE id = $1
	`, id, models.WithdrawalStatusCompleted, proof, notes, now)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: approve %w", err)
	}

	// Заказы остаются привязанными к заявке для аудита, но помечаются
	// выплаченными и навсегда выпадают из пула аллокации.
	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET withdrawn = TRUE, updated_at = NOW() WHERE withdrawal_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: mark orders withdrawn %w", err)
	}

	if err := tx.SelectContext(ctx, &w.OrderIDs, `
		SELECT id FROM orders WHERE withdrawal_id = $1 ORDER BY created_at ASC
	`, id); err != nil {
		return nil, fmt.Errorf("withdrawal repository: load order ids %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("withdrawal repository: commit %w", err)
	}

	w.Status = models.WithdrawalStatusCompleted
	w.PayoutProof = &proof
	if notes != nil {
		w.Notes = notes
	}
	w.ProcessedAt = &now
	w.CompletedAt = &now
	return w, nil
}

// Reject отклоняет заявку и возвращает закреплённые заказы в пул:
// точная инверсия аллокации. Повторное отклонение — конфликт, а не
// тихий повторный выпуск заказов.
func (r *WithdrawalRepository) Reject(ctx context.Context, id uuid.UUID, note string) (*models.WithdrawalRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: begin tx %w", err)
	}
	defer tx.Rollback()

	w, err := lockWithdrawal(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !w.IsOpen() {
		return nil, ErrWithdrawalAlreadyDecided
	}

	// Запоминаем, какие заказы держала заявка, до их освобождения.
	if err := tx.SelectContext(ctx, &w.OrderIDs, `
		SELECT id FROM orders WHERE withdrawal_id = $1 ORDER BY created_at ASC
	`, id); err != nil {
		return nil, fmt.Errorf("withdrawal repository: load order ids %w", err)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE withdrawals SET status = $2, notes = $3, processed_at = $4 WHERE id = $1
	`, id, models.WithdrawalStatusRejected, note, now)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: reject %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET withdrawal_id = NULL, updated_at = NOW() WHERE withdrawal_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: release orders %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("withdrawal repository: commit %w", err)
	}

	w.Status = models.WithdrawalStatusRejected
	w.Notes = &note
	w.ProcessedAt = &now
	return w, nil
}

// SumCompleted считает сумму завершённых выплат продавца.
func (r *WithdrawalRepository) SumCompleted(ctx context.Context, sellerID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE seller_id = $1 AND status = $2
	`, sellerID, models.WithdrawalStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("withdrawal repository: sum completed %w", err)
	}
	return sum, nil
}

// SumOpen считает сумму открытых (pending/processing) заявок продавца.
func (r *WithdrawalRepository) SumOpen(ctx context.Context, sellerID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE seller_id = $1 AND status IN ($2, $3)
	`, sellerID, models.WithdrawalStatusPending, models.WithdrawalStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("withdrawal repository: sum open %w", err)
	}
	return sum, nil
}

// lockWithdrawal читает заявку с блокировкой строки до конца транзакции.
func lockWithdrawal(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := tx.GetContext(ctx, &w, `SELECT * FROM withdrawals WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: lock %w", err)
	}
	return &w, nil
}
