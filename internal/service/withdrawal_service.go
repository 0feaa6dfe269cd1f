package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/chainmarket/internal/goroutine"
	"github.com/ignatzorin/chainmarket/internal/logger"
	"github.com/ignatzorin/chainmarket/internal/models"
	"github.com/ignatzorin/chainmarket/internal/pkg/apperror"
	"github.com/ignatzorin/chainmarket/internal/repository"
	"github.com/ignatzorin/chainmarket/internal/validation"
)

// Решения оператора по заявке на вывод.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

const defaultRejectNote = "заявка отклонена оператором"

type WithdrawalRepository interface {
	CreateWithAllocation(ctx context.Context, sellerID uuid.UUID, amount float64, currency string) (*models.WithdrawalRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.WithdrawalRequest, error)
	ListOpen(ctx context.Context, limit, offset int) ([]models.WithdrawalRequest, error)
	Hold(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	Approve(ctx context.Context, id uuid.UUID, proof string, notes *string) (*models.WithdrawalRequest, error)
	Reject(ctx context.Context, id uuid.UUID, note string) (*models.WithdrawalRequest, error)
}

// EarningsProvider отдаёт снимок заработка для проверки доступного остатка.
type EarningsProvider interface {
	GetEarnings(ctx context.Context, sellerID uuid.UUID) (*models.SellerEarnings, error)
}

// WithdrawalNotifier рассылает события о решениях по заявкам.
type WithdrawalNotifier interface {
	NotifyWithdrawalDecided(w *models.WithdrawalRequest)
}

type WithdrawalService struct {
	repo      WithdrawalRepository
	earnings  EarningsProvider
	notifier  WithdrawalNotifier
	minAmount float64
}

func NewWithdrawalService(repo WithdrawalRepository, earnings EarningsProvider, notifier WithdrawalNotifier, minAmount float64) *WithdrawalService {
	return &WithdrawalService{
		repo:      repo,
		earnings:  earnings,
		notifier:  notifier,
		minAmount: minAmount,
	}
}

// RequestWithdrawal создаёт заявку продавца и атомарно закрепляет за ней
// завершённые заказы. Вторая открытая заявка того же продавца — конфликт,
// гонку двух одновременных запросов разрешает база.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, sellerID uuid.UUID, amount float64, currency string) (*models.WithdrawalRequest, error) {
	if err := validation.ValidateAmount("сумма вывода", amount); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if amount < s.minAmount {
		return nil, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("минимальная сумма вывода — %g %s", s.minAmount, models.CurrencySUI))
	}
	if currency != models.CurrencySUI {
		return nil, apperror.New(apperror.ErrCodeValidation, "вывод средств доступен только в SUI")
	}

	earnings, err := s.earnings.GetEarnings(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if earnings.Available < amount {
		return nil, apperror.New(apperror.ErrCodeConflict, "доступного остатка недостаточно для вывода")
	}

	w, err := s.repo.CreateWithAllocation(ctx, sellerID, amount, currency)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOpenWithdrawalExists):
			return nil, apperror.New(apperror.ErrCodeConflict, "у продавца уже есть открытая заявка на вывод")
		case errors.Is(err, repository.ErrInsufficientUnallocated):
			return nil, apperror.New(apperror.ErrCodeConflict, "доступного остатка недостаточно для вывода")
		case errors.Is(err, repository.ErrAllocationConflict):
			return nil, apperror.New(apperror.ErrCodeConflict, "заказы заняты другой заявкой, повторите запрос")
		}
		return nil, err
	}

	logger.Log.WithField("withdrawal_id", w.ID).WithField("seller_id", sellerID).
		WithField("amount", amount).WithField("orders", len(w.OrderIDs)).
		Info("заявка на вывод создана")
	return w, nil
}

// GetWithdrawal возвращает заявку продавцу-владельцу или оператору.
func (s *WithdrawalService) GetWithdrawal(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) (*models.WithdrawalRequest, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWithdrawalNotFound) {
			return nil, apperror.ErrWithdrawalNotFound
		}
		return nil, err
	}
	if requesterRole != models.RoleOperator && w.SellerID != requesterID {
		return nil, apperror.ErrForbidden
	}
	return w, nil
}

// ListSellerWithdrawals возвращает заявки продавца.
func (s *WithdrawalService) ListSellerWithdrawals(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.WithdrawalRequest, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListBySeller(ctx, sellerID, limit, offset)
}

// ListOpenWithdrawals возвращает очередь открытых заявок для оператора.
func (s *WithdrawalService) ListOpenWithdrawals(ctx context.Context, limit, offset int) ([]models.WithdrawalRequest, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListOpen(ctx, limit, offset)
}

// HoldWithdrawal берёт заявку в работу: pending -> processing.
func (s *WithdrawalService) HoldWithdrawal(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	w, err := s.repo.Hold(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			return nil, apperror.ErrWithdrawalNotFound
		case errors.Is(err, repository.ErrWithdrawalNotPending):
			return nil, apperror.New(apperror.ErrCodeConflict, "в работу берутся только заявки в статусе pending")
		}
		return nil, err
	}
	return w, nil
}

// DecideWithdrawal фиксирует решение оператора. Одобрение без
// подтверждения выплаты невозможно, решение по закрытой заявке — конфликт.
func (s *WithdrawalService) DecideWithdrawal(ctx context.Context, id uuid.UUID, decision, payoutProof string, notes *string) (*models.WithdrawalRequest, error) {
	if notes != nil {
		if err := validation.ValidateNotes(*notes); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	var (
		w   *models.WithdrawalRequest
		err error
	)
	switch decision {
	case DecisionApprove:
		if err := validation.ValidateTxDigest(payoutProof); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "одобрение требует подтверждения выплаты")
		}
		w, err = s.repo.Approve(ctx, id, payoutProof, notes)
	case DecisionReject:
		note := defaultRejectNote
		if notes != nil && *notes != "" {
			note = *notes
		}
		w, err = s.repo.Reject(ctx, id, note)
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "решение должно быть approve или reject")
	}

	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			return nil, apperror.ErrWithdrawalNotFound
		case errors.Is(err, repository.ErrWithdrawalAlreadyDecided):
			return nil, apperror.New(apperror.ErrCodeConflict, "по заявке уже принято решение")
		}
		return nil, err
	}

	logger.Log.WithField("withdrawal_id", w.ID).WithField("decision", decision).
		Info("решение по заявке на вывод принято")

	if s.notifier != nil {
		decided := *w
		goroutine.SafeGo(func() {
			s.notifier.NotifyWithdrawalDecided(&decided)
		})
	}
	return w, nil
}
