package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы заявки на вывод. Completed и rejected — терминальные,
// повторное решение по ним запрещено.
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusRejected   = "rejected"
)

// WithdrawalRequest — один цикл выплаты продавцу. Создаётся продавцом,
// дальше мутируется только оператором.
type WithdrawalRequest struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	SellerID    uuid.UUID  `db:"seller_id" json:"seller_id"`
	Amount      float64    `db:"amount" json:"amount"`
	Currency    string     `db:"currency" json:"currency"`
	Status      string     `db:"status" json:"status"`
	PayoutProof *string    `db:"payout_proof" json:"payout_proof,omitempty"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	RequestedAt time.Time  `db:"requested_at" json:"requested_at"`
	ProcessedAt *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`

	// OrderIDs — закреплённые за заявкой заказы, старые сначала.
	// Хранятся обратной ссылкой orders.withdrawal_id и подгружаются репозиторием.
	OrderIDs []uuid.UUID `db:"-" json:"order_ids,omitempty"`
}

// IsOpen сообщает, держит ли заявка аллокацию заказов.
func (w *WithdrawalRequest) IsOpen() bool {
	return w.Status == WithdrawalStatusPending || w.Status == WithdrawalStatusProcessing
}
