package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы заказа. Переход pending -> completed выполняет только
// верификация платежа в сети, pending -> failed — её провал.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

// Order описывает покупку в магазине и финансовую разбивку суммы.
// Инвариант: FeeAmount + SellerPayout == Amount (с точностью округления).
type Order struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	BuyerID      uuid.UUID  `db:"buyer_id" json:"buyer_id"`
	StoreID      uuid.UUID  `db:"store_id" json:"store_id"`
	SellerID     uuid.UUID  `db:"seller_id" json:"seller_id"`
	Currency     string     `db:"currency" json:"currency"`
	Amount       float64    `db:"amount" json:"amount"`
	FeePercent   float64    `db:"fee_percent" json:"fee_percent"`
	FeeAmount    float64    `db:"fee_amount" json:"fee_amount"`
	SellerPayout float64    `db:"seller_payout" json:"seller_payout"`
	Status       string     `db:"status" json:"status"`
	BuyerWallet  string     `db:"buyer_wallet" json:"buyer_wallet"`
	PaymentProof *string    `db:"payment_proof" json:"payment_proof,omitempty"`
	WithdrawalID *uuid.UUID `db:"withdrawal_id" json:"withdrawal_id,omitempty"`
	Withdrawn    bool       `db:"withdrawn" json:"withdrawn"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsAllocated сообщает, закреплён ли заказ за открытой заявкой на вывод.
func (o *Order) IsAllocated() bool {
	return o.WithdrawalID != nil
}
