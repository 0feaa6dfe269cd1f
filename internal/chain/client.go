package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TxStatus — статус транзакции с точки зрения сети.
type TxStatus string

const (
	StatusUnconfirmed TxStatus = "unconfirmed"
	StatusConfirmed   TxStatus = "confirmed"
	StatusFinalized   TxStatus = "finalized"
	StatusError       TxStatus = "error"
)

// MistPerSui — количество минимальных единиц в одной монете.
const MistPerSui = 1_000_000_000

var ErrTxNotFound = errors.New("chain: transaction not found")

// TransferResult — поля перевода, независимо восстановленные из сети.
// Именно по ним (а не по словам клиента) проверяется платёж.
type TransferResult struct {
	Digest      string
	Sender      string
	Recipient   string
	AmountDelta float64
	Succeeded   bool
	ExecError   string
}

// Client ходит в полную ноду сети по JSON-RPC.
type Client struct {
	rpcURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент для заданного RPC endpoint.
func NewClient(rpcURL string) *Client {
	return &Client{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call выполняет один JSON-RPC вызов и декодирует result в out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("chain: %s: marshal request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("chain: %s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chain: %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chain: %s: неожиданный статус %d", method, resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("chain: %s: decode response: %w", method, err)
	}
	if envelope.Error != nil {
		if isNotFoundRPCError(envelope.Error) {
			return ErrTxNotFound
		}
		return fmt.Errorf("chain: %s: rpc error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("chain: %s: unmarshal result: %w", method, err)
		}
	}
	return nil
}

// isNotFoundRPCError распознаёт ответ ноды "digest не найден".
// Нода отвечает ошибкой -32602 c текстом про not found для неизвестных digest.
func isNotFoundRPCError(e *rpcError) bool {
	if e == nil {
		return false
	}
	msg := strings.ToLower(e.Message)
	return e.Code == -32602 || strings.Contains(msg, "not found") || strings.Contains(msg, "could not find")
}

// LatestCheckpoint возвращает номер последнего чекпоинта сети.
func (c *Client) LatestCheckpoint(ctx context.Context) (uint64, error) {
	var raw string
	if err := c.call(ctx, "sui_getLatestCheckpointSequenceNumber", nil, &raw); err != nil {
		return 0, err
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("chain: некорректный номер чекпоинта %q: %w", raw, err)
	}
	return seq, nil
}

// SubmitTransfer отправляет подписанную транзакцию и возвращает её digest.
// Вызов не идемпотентен, автоматических повторов быть не должно.
func (c *Client) SubmitTransfer(ctx context.Context, txBytes, signature string) (string, error) {
	var result struct {
		Digest string `json:"digest"`
	}
	params := []any{
		txBytes,
		[]string{signature},
		map[string]bool{"showEffects": true},
		"WaitForEffectsCert",
	}
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &result); err != nil {
		return "", err
	}
	if result.Digest == "" {
		return "", fmt.Errorf("chain: нода не вернула digest транзакции")
	}
	return result.Digest, nil
}

// txBlock — интересующая нас часть ответа sui_getTransactionBlock.
type txBlock struct {
	Digest      string `json:"digest"`
	Transaction struct {
		Data struct {
			Sender string `json:"sender"`
		} `json:"data"`
	} `json:"transaction"`
	Effects struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"status"`
	} `json:"effects"`
	BalanceChanges []struct {
		Owner struct {
			AddressOwner string `json:"AddressOwner"`
		} `json:"owner"`
		CoinType string `json:"coinType"`
		Amount   string `json:"amount"`
	} `json:"balanceChanges"`
	Checkpoint *string `json:"checkpoint"`
}

// TransactionStatus возвращает статус транзакции: подтверждена,
// финализирована (попала в чекпоинт), завершилась ошибкой или ещё не видна.
func (c *Client) TransactionStatus(ctx context.Context, digest string) (TxStatus, error) {
	block, err := c.getTransactionBlock(ctx, digest)
	if err != nil {
		if errors.Is(err, ErrTxNotFound) {
			return StatusUnconfirmed, nil
		}
		return "", err
	}

	if block.Effects.Status.Status == "failure" {
		return StatusError, nil
	}
	if block.Checkpoint != nil {
		return StatusFinalized, nil
	}
	return StatusConfirmed, nil
}

// Transaction независимо восстанавливает отправителя, получателя и сумму
// перевода из финализированной транзакции.
func (c *Client) Transaction(ctx context.Context, digest string) (*TransferResult, error) {
	block, err := c.getTransactionBlock(ctx, digest)
	if err != nil {
		return nil, err
	}

	result := &TransferResult{
		Digest:    block.Digest,
		Sender:    block.Transaction.Data.Sender,
		Succeeded: block.Effects.Status.Status == "success",
		ExecError: block.Effects.Status.Error,
	}

	// Получатель и сумма берутся из положительного изменения баланса
	// нативной монеты, а не из слов клиента.
	for _, change := range block.BalanceChanges {
		amount, err := strconv.ParseInt(change.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chain: некорректная сумма %q в balanceChanges: %w", change.Amount, err)
		}
		if amount > 0 && change.Owner.AddressOwner != "" {
			result.Recipient = change.Owner.AddressOwner
			result.AmountDelta = float64(amount) / MistPerSui
			break
		}
	}

	return result, nil
}

func (c *Client) getTransactionBlock(ctx context.Context, digest string) (*txBlock, error) {
	var block txBlock
	params := []any{
		digest,
		map[string]bool{
			"showInput":          true,
			"showEffects":        true,
			"showBalanceChanges": true,
		},
	}
	if err := c.call(ctx, "sui_getTransactionBlock", params, &block); err != nil {
		return nil, err
	}
	if block.Digest == "" {
		return nil, ErrTxNotFound
	}
	return &block, nil
}
