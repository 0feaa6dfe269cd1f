package dto

import "github.com/google/uuid"

// CreateOrderRequest represents the request to create an order
type CreateOrderRequest struct {
	StoreID     uuid.UUID `json:"store_id" binding:"required"`
	Amount      float64   `json:"amount" binding:"required"`
	Currency    string    `json:"currency" binding:"required"`
	BuyerWallet string    `json:"buyer_wallet" binding:"required"`
}

// SubmitTransferRequest represents a signed transaction ready for broadcast
type SubmitTransferRequest struct {
	TxBytes   string `json:"tx_bytes" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyPaymentRequest represents the request to verify an on-chain payment
type VerifyPaymentRequest struct {
	TxDigest string `json:"tx_digest" binding:"required"`
}

// CreateWithdrawalRequest represents a seller's payout request
type CreateWithdrawalRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency" binding:"required"`
}

// WithdrawalDecisionRequest represents an operator's decision on a withdrawal
type WithdrawalDecisionRequest struct {
	Decision    string  `json:"decision" binding:"required"`
	PayoutProof string  `json:"payout_proof"`
	Notes       *string `json:"notes"`
}
