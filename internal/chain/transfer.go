package chain

import "time"

// DefaultGasBudget — бюджет газа для простого перевода, в MIST.
const DefaultGasBudget uint64 = 10_000_000

// TransferTTL ограничивает срок жизни неподписанного перевода:
// привязка к свежему чекпоинту не даёт переиспользовать его бесконечно.
const TransferTTL = 10 * time.Minute

// UnsignedTransfer — заготовка перевода нативной монеты. Подписывает
// и отправляет её кошелёк покупателя на своей стороне.
type UnsignedTransfer struct {
	Sender     string    `json:"sender"`
	Recipient  string    `json:"recipient"`
	Amount     float64   `json:"amount"`
	AmountMist int64     `json:"amount_mist"`
	GasBudget  uint64    `json:"gas_budget"`
	Checkpoint uint64    `json:"checkpoint"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// NewUnsignedTransfer собирает перевод, привязанный к чекпоинту сети.
func NewUnsignedTransfer(sender, recipient string, amount float64, checkpoint uint64) *UnsignedTransfer {
	return &UnsignedTransfer{
		Sender:     sender,
		Recipient:  recipient,
		Amount:     amount,
		AmountMist: int64(amount * MistPerSui),
		GasBudget:  DefaultGasBudget,
		Checkpoint: checkpoint,
		ExpiresAt:  time.Now().Add(TransferTTL),
	}
}
