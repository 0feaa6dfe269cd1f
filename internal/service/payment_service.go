package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/chainmarket/internal/chain"
	"github.com/ignatzorin/chainmarket/internal/goroutine"
	"github.com/ignatzorin/chainmarket/internal/logger"
	"github.com/ignatzorin/chainmarket/internal/models"
	"github.com/ignatzorin/chainmarket/internal/pkg/apperror"
	"github.com/ignatzorin/chainmarket/internal/repository"
	"github.com/ignatzorin/chainmarket/internal/validation"
)

// AmountTolerance — допустимое относительное отклонение суммы перевода
// от суммы заказа (газ, округление на стороне кошелька).
const AmountTolerance = 0.01

type ChainClient interface {
	LatestCheckpoint(ctx context.Context) (uint64, error)
	SubmitTransfer(ctx context.Context, txBytes, signature string) (string, error)
	TransactionStatus(ctx context.Context, digest string) (chain.TxStatus, error)
	Transaction(ctx context.Context, digest string) (*chain.TransferResult, error)
}

type PaymentOrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, proof string) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// PaymentNotifier рассылает события об итогах платежа. Доставка
// не влияет на результат верификации.
type PaymentNotifier interface {
	NotifyOrderCompleted(order *models.Order)
}

type PaymentService struct {
	orders         PaymentOrderRepository
	client         ChainClient
	notifier       PaymentNotifier
	platformWallet string
	pollInterval   time.Duration
	confirmTimeout time.Duration
}

func NewPaymentService(orders PaymentOrderRepository, client ChainClient, notifier PaymentNotifier, platformWallet string, pollInterval, confirmTimeout time.Duration) *PaymentService {
	return &PaymentService{
		orders:         orders,
		client:         client,
		notifier:       notifier,
		platformWallet: platformWallet,
		pollInterval:   pollInterval,
		confirmTimeout: confirmTimeout,
	}
}

// BuildTransfer собирает неподписанный перевод для оплаты заказа.
// Получатель — кастодиальный кошелёк платформы; продавцу его доля
// уходит позже, через вывод средств.
func (s *PaymentService) BuildTransfer(ctx context.Context, orderID, buyerID uuid.UUID) (*chain.UnsignedTransfer, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, apperror.ErrForbidden
	}
	if order.Status != models.OrderStatusPending {
		return nil, apperror.New(apperror.ErrCodeConflict, "заказ уже обработан")
	}

	checkpoint, err := s.client.LatestCheckpoint(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDependency, "сеть недоступна")
	}
	return chain.NewUnsignedTransfer(order.BuyerWallet, s.platformWallet, order.Amount, checkpoint), nil
}

// SubmitSignedTransfer отправляет подписанную покупателем транзакцию в сеть
// и возвращает digest для последующей верификации. Повторов нет: при
// неоднозначном исходе покупатель проверяет статус по digest сам.
func (s *PaymentService) SubmitSignedTransfer(ctx context.Context, txBytes, signature string) (string, error) {
	if txBytes == "" || signature == "" {
		return "", apperror.New(apperror.ErrCodeValidation, "транзакция и подпись обязательны")
	}
	digest, err := s.client.SubmitTransfer(ctx, txBytes, signature)
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeDependency, "сеть отклонила транзакцию")
	}
	return digest, nil
}

// VerifyPayment дожидается подтверждения транзакции и проверяет её против
// заказа. Успех переводит заказ в completed, провал любой проверки —
// в failed, таймаут ожидания оставляет заказ pending.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderID, buyerID uuid.UUID, txDigest string) (*models.Order, error) {
	if err := validation.ValidateTxDigest(txDigest); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, apperror.ErrForbidden
	}

	// Повторный вызов с тем же digest идемпотентен, с другим — конфликт.
	if order.Status == models.OrderStatusCompleted {
		if order.PaymentProof != nil && *order.PaymentProof == txDigest {
			return order, nil
		}
		return nil, apperror.New(apperror.ErrCodeConflict, "заказ уже оплачен другой транзакцией")
	}
	if order.Status != models.OrderStatusPending {
		return nil, apperror.New(apperror.ErrCodeConflict, "заказ уже обработан")
	}

	if err := s.awaitConfirmation(ctx, txDigest); err != nil {
		return nil, err
	}

	result, err := s.client.Transaction(ctx, txDigest)
	if err != nil {
		if errors.Is(err, chain.ErrTxNotFound) {
			return nil, s.failVerification(ctx, order, txDigest, "transaction not found")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDependency, "сеть недоступна")
	}

	if reason := s.checkTransfer(order, result); reason != "" {
		return nil, s.failVerification(ctx, order, txDigest, reason)
	}

	if err := s.orders.MarkCompleted(ctx, orderID, txDigest); err != nil {
		if errors.Is(err, repository.ErrOrderNotPending) {
			return nil, apperror.New(apperror.ErrCodeConflict, "заказ уже обработан")
		}
		return nil, err
	}

	order.Status = models.OrderStatusCompleted
	order.PaymentProof = &txDigest
	logger.Log.WithField("order_id", orderID).WithField("tx_digest", txDigest).
		Info("платёж подтверждён, заказ завершён")

	if s.notifier != nil {
		completed := *order
		goroutine.SafeGo(func() {
			s.notifier.NotifyOrderCompleted(&completed)
		})
	}
	return order, nil
}

// awaitConfirmation опрашивает сеть, пока транзакция не будет хотя бы
// подтверждена или не завершится ошибкой. По таймауту возвращает
// PAYMENT_UNRESOLVED, не трогая заказ: исход неизвестен, и помечать
// платёж провальным нельзя.
func (s *PaymentService) awaitConfirmation(ctx context.Context, digest string) error {
	deadline := time.NewTimer(s.confirmTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		status, err := s.client.TransactionStatus(ctx, digest)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDependency, "сеть недоступна")
		}
		switch status {
		case chain.StatusConfirmed, chain.StatusFinalized, chain.StatusError:
			return nil
		}

		select {
		case <-ctx.Done():
			return apperror.Wrap(ctx.Err(), apperror.ErrCodeUnresolved, "подтверждение транзакции прервано, статус заказа не изменён")
		case <-deadline.C:
			return apperror.New(apperror.ErrCodeUnresolved, "транзакция не подтверждена за отведённое время, статус заказа не изменён")
		case <-ticker.C:
		}
	}
}

// checkTransfer сверяет восстановленный из сети перевод с заказом.
// Порядок проверок фиксирован: исполнение, отправитель, получатель, сумма.
func (s *PaymentService) checkTransfer(order *models.Order, result *chain.TransferResult) string {
	if !result.Succeeded {
		return "transaction execution failed"
	}
	if result.Sender != order.BuyerWallet {
		return "sender mismatch"
	}
	if result.Recipient != s.platformWallet {
		return "recipient mismatch"
	}
	if math.Abs(result.AmountDelta-order.Amount) > order.Amount*AmountTolerance {
		return "amount mismatch"
	}
	return ""
}

func (s *PaymentService) failVerification(ctx context.Context, order *models.Order, digest, reason string) error {
	logger.Log.WithField("order_id", order.ID).WithField("tx_digest", digest).
		WithField("reason", reason).Warn("верификация платежа провалена")

	if err := s.orders.MarkFailed(ctx, order.ID); err != nil && !errors.Is(err, repository.ErrOrderNotPending) {
		return err
	}
	return apperror.New(apperror.ErrCodeVerification, reason)
}
