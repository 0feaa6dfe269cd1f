package ws

import (
	"github.com/ignatzorin/chainmarket/internal/logger"
	"github.com/ignatzorin/chainmarket/internal/models"
)

// События денежного контура.
const (
	EventOrderCompleted    = "order_completed"
	EventWithdrawalDecided = "withdrawal_decided"
)

// Notifier адаптирует хаб под интерфейсы сервисов. Доставка best-effort:
// ошибка рассылки логируется и не влияет на исход операции.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// NotifyOrderCompleted сообщает покупателю и продавцу о завершении заказа.
func (n *Notifier) NotifyOrderCompleted(order *models.Order) {
	if err := n.hub.BroadcastToUser(order.BuyerID, EventOrderCompleted, order); err != nil {
		logger.Log.WithError(err).Warn("ws: не удалось уведомить покупателя о заказе")
	}
	if err := n.hub.BroadcastToUser(order.SellerID, EventOrderCompleted, order); err != nil {
		logger.Log.WithError(err).Warn("ws: не удалось уведомить продавца о заказе")
	}
}

// NotifyWithdrawalDecided сообщает продавцу о решении по заявке.
func (n *Notifier) NotifyWithdrawalDecided(w *models.WithdrawalRequest) {
	if err := n.hub.BroadcastToUser(w.SellerID, EventWithdrawalDecided, w); err != nil {
		logger.Log.WithError(err).Warn("ws: не удалось уведомить продавца о решении по выводу")
	}
}
