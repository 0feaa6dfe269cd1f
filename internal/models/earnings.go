package models

// SellerEarnings — производный снимок заработка продавца.
// Не хранится в БД и пересчитывается с нуля при каждом запросе.
type SellerEarnings struct {
	TotalRevenue       float64 `json:"total_revenue"`
	FeeWithheld        float64 `json:"fee_withheld"`
	SellerShare        float64 `json:"seller_share"`
	Withdrawn          float64 `json:"withdrawn"`
	PendingWithdrawals float64 `json:"pending_withdrawals"`
	Available          float64 `json:"available"`
	Currency           string  `json:"currency"`
}
