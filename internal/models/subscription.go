package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription — подписка продавца, определяющая тарифный план комиссии.
type Subscription struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	SellerID  uuid.UUID  `db:"seller_id" json:"seller_id"`
	Plan      string     `db:"plan" json:"plan"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
