package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает участника платформы: покупателя, продавца или оператора.
// Регистрация и аутентификация живут во внешнем сервисе, здесь только
// данные, нужные денежному контуру.
type User struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	Username      string    `db:"username" json:"username"`
	Role          string    `db:"role" json:"role"`
	WalletAddress *string   `db:"wallet_address" json:"wallet_address,omitempty"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Store — магазин продавца. Заказы ссылаются на магазин, а выручка
// принадлежит его владельцу.
type Store struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
