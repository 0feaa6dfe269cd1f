package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/chainmarket/internal/models"
)

func newWithdrawalRepoMock(t *testing.T) (*WithdrawalRepository, sqlmock.Sqlmock) {
	db, dbm, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithdrawalRepository(sqlx.NewDb(db, "sqlmock")), dbm
}

func withdrawalRow(id, sellerID uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "seller_id", "amount", "currency", "status",
		"payout_proof", "notes", "requested_at", "processed_at", "completed_at",
	}).AddRow(id.String(), sellerID.String(), 50.0, models.CurrencySUI, status,
		nil, nil, time.Now(), nil, nil)
}

// Конкурентная транзакция успела занять кандидата между SELECT и UPDATE:
// условие withdrawal_id IS NULL не совпало, и вся транзакция откатывается,
// заявка без аллокации не остаётся.
func TestWithdrawalRepository_CreateWithAllocation_ConcurrentClaimRollsBack(t *testing.T) {
	repo, dbm := newWithdrawalRepoMock(t)
	sellerID := uuid.New()
	withdrawalID := uuid.New()
	orderID := uuid.New()

	dbm.ExpectBegin()
	dbm.ExpectQuery("INSERT INTO withdrawals").
		WithArgs(sellerID, 50.0, models.CurrencySUI, models.WithdrawalStatusPending).
		WillReturnRows(withdrawalRow(withdrawalID, sellerID, models.WithdrawalStatusPending))
	dbm.ExpectQuery("SELECT id, seller_payout FROM orders").
		WithArgs(sellerID, models.OrderStatusCompleted, models.CurrencySUI).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seller_payout"}).
			AddRow(orderID.String(), 90.0))
	dbm.ExpectExec("UPDATE orders SET withdrawal_id").
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbm.ExpectRollback()

	_, err := repo.CreateWithAllocation(context.Background(), sellerID, 50.0, models.CurrencySUI)

	assert.ErrorIs(t, err, ErrAllocationConflict)
	assert.NoError(t, dbm.ExpectationsWereMet())
}

func TestWithdrawalRepository_CreateWithAllocation_InsufficientRollsBack(t *testing.T) {
	repo, dbm := newWithdrawalRepoMock(t)
	sellerID := uuid.New()

	dbm.ExpectBegin()
	dbm.ExpectQuery("INSERT INTO withdrawals").
		WillReturnRows(withdrawalRow(uuid.New(), sellerID, models.WithdrawalStatusPending))
	dbm.ExpectQuery("SELECT id, seller_payout FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seller_payout"}).
			AddRow(uuid.New().String(), 20.0))
	dbm.ExpectRollback()

	_, err := repo.CreateWithAllocation(context.Background(), sellerID, 50.0, models.CurrencySUI)

	assert.ErrorIs(t, err, ErrInsufficientUnallocated)
	assert.NoError(t, dbm.ExpectationsWereMet())
}

// Отклонение возвращает все закреплённые заказы в пул той же транзакцией,
// что меняет статус заявки.
func TestWithdrawalRepository_Reject_ReleasesAllocatedOrders(t *testing.T) {
	repo, dbm := newWithdrawalRepoMock(t)
	withdrawalID := uuid.New()
	first, second := uuid.New(), uuid.New()

	dbm.ExpectBegin()
	dbm.ExpectQuery("SELECT (.+) FROM withdrawals WHERE id = (.+) FOR UPDATE").
		WillReturnRows(withdrawalRow(withdrawalID, uuid.New(), models.WithdrawalStatusPending))
	dbm.ExpectQuery("SELECT id FROM orders WHERE withdrawal_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(first.String()).AddRow(second.String()))
	dbm.ExpectExec("UPDATE withdrawals SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbm.ExpectExec("UPDATE orders SET withdrawal_id = NULL").
		WillReturnResult(sqlmock.NewResult(0, 2))
	dbm.ExpectCommit()

	w, err := repo.Reject(context.Background(), withdrawalID, "нет подтверждающих документов")

	assert.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, w.Status)
	assert.Equal(t, []uuid.UUID{first, second}, w.OrderIDs)
	assert.NoError(t, dbm.ExpectationsWereMet())
}

func TestWithdrawalRepository_Reject_AlreadyDecided(t *testing.T) {
	repo, dbm := newWithdrawalRepoMock(t)
	withdrawalID := uuid.New()

	dbm.ExpectBegin()
	dbm.ExpectQuery("SELECT (.+) FROM withdrawals WHERE id = (.+) FOR UPDATE").
		WillReturnRows(withdrawalRow(withdrawalID, uuid.New(), models.WithdrawalStatusCompleted))
	dbm.ExpectRollback()

	_, err := repo.Reject(context.Background(), withdrawalID, "повторное решение")

	assert.ErrorIs(t, err, ErrWithdrawalAlreadyDecided)
	assert.NoError(t, dbm.ExpectationsWereMet())
}
