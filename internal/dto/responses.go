package dto

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse is the standard success payload with optional data
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SubmitTransferResponse carries the digest of a broadcast transaction
type SubmitTransferResponse struct {
	TxDigest string `json:"tx_digest"`
}
