package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/chainmarket/internal/logger"
	"github.com/ignatzorin/chainmarket/internal/models"
	"github.com/ignatzorin/chainmarket/internal/repository"
)

type EarningsOrderRepository interface {
	SumsBySeller(ctx context.Context, sellerID uuid.UUID) (*repository.OrderSums, error)
}

type WithdrawalSums interface {
	SumCompleted(ctx context.Context, sellerID uuid.UUID) (float64, error)
	SumOpen(ctx context.Context, sellerID uuid.UUID) (float64, error)
}

// EarningsService считает заработок продавца с нуля при каждом запросе.
// Отдельного хранимого баланса нет, источник истины — заказы и заявки.
type EarningsService struct {
	orders      EarningsOrderRepository
	withdrawals WithdrawalSums
}

func NewEarningsService(orders EarningsOrderRepository, withdrawals WithdrawalSums) *EarningsService {
	return &EarningsService{orders: orders, withdrawals: withdrawals}
}

// GetEarnings возвращает снимок заработка продавца.
// available = доля продавца - выплачено - открытые заявки, но не ниже нуля.
func (s *EarningsService) GetEarnings(ctx context.Context, sellerID uuid.UUID) (*models.SellerEarnings, error) {
	sums, err := s.orders.SumsBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.withdrawals.SumCompleted(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	pending, err := s.withdrawals.SumOpen(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	available := roundCoin(sums.SellerShare - withdrawn - pending)
	if available < 0 {
		// Возможно только при переаллокации последнего заказа заявки.
		// Это не долг продавца, а округление вниз до нуля, но сигнал
		// в логах оставляем.
		logger.Log.WithField("seller_id", sellerID).WithField("available", available).
			Warn("earnings: доступный остаток ушёл в минус, выравниваем в ноль")
		available = 0
	}

	return &models.SellerEarnings{
		TotalRevenue:       sums.TotalRevenue,
		FeeWithheld:        sums.FeeWithheld,
		SellerShare:        sums.SellerShare,
		Withdrawn:          withdrawn,
		PendingWithdrawals: pending,
		Available:          available,
		Currency:           models.CurrencySUI,
	}, nil
}
