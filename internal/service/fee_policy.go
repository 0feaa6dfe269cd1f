package service

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/ignatzorin/chainmarket/internal/logger"
	"github.com/ignatzorin/chainmarket/internal/models"
)

// Комиссия платформы по тарифам подписки, в процентах.
const (
	FeePercentBasic    = 10.0
	FeePercentPro      = 5.0
	FeePercentBusiness = 2.0
)

// DefaultFeePercent применяется, когда тариф продавца выяснить не удалось.
// Закрываемся в большую сторону: сбой подписочного сервиса не должен
// дарить продавцу льготную комиссию.
const DefaultFeePercent = FeePercentBasic

// TierLookup отдаёт действующий тариф подписки продавца.
type TierLookup interface {
	GetActivePlan(ctx context.Context, sellerID uuid.UUID) (string, error)
}

// FeePolicy вычисляет процент комиссии по тарифу продавца.
type FeePolicy struct {
	tiers TierLookup
}

func NewFeePolicy(tiers TierLookup) *FeePolicy {
	return &FeePolicy{tiers: tiers}
}

// FeePercent возвращает процент комиссии для продавца. Любая ошибка
// определения тарифа сводится к базовой ставке.
func (p *FeePolicy) FeePercent(ctx context.Context, sellerID uuid.UUID) float64 {
	plan, err := p.tiers.GetActivePlan(ctx, sellerID)
	if err != nil {
		logger.Log.WithField("seller_id", sellerID).WithError(err).
			Warn("fee policy: тариф не определён, применяем базовую ставку")
		return DefaultFeePercent
	}
	return feePercentForPlan(plan, sellerID)
}

func feePercentForPlan(plan string, sellerID uuid.UUID) float64 {
	switch plan {
	case models.PlanBusiness:
		return FeePercentBusiness
	case models.PlanPro:
		return FeePercentPro
	case models.PlanBasic:
		return FeePercentBasic
	default:
		logger.Log.WithField("seller_id", sellerID).WithField("plan", plan).
			Warn("fee policy: неизвестный тариф, применяем базовую ставку")
		return DefaultFeePercent
	}
}

// SplitAmount делит сумму заказа на комиссию и долю продавца.
// Доля продавца считается вычитанием, чтобы части всегда сходились
// в исходную сумму.
func SplitAmount(amount, feePercent float64) (feeAmount, sellerPayout float64) {
	feeAmount = roundCoin(amount * feePercent / 100)
	sellerPayout = roundCoin(amount - feeAmount)
	return feeAmount, sellerPayout
}

// roundCoin округляет сумму до минимальной единицы монеты (9 знаков).
func roundCoin(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
