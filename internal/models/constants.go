package models

// Роли пользователей платформы.
const (
	RoleBuyer    = "buyer"
	RoleSeller   = "seller"
	RoleOperator = "operator"
)

// Валюты. Заказы и выводы средств ведутся в нативной монете сети,
// подписки тарифицируются в рублях.
const (
	CurrencySUI = "SUI"
	CurrencyRUB = "RUB"
)

// Тарифные планы подписки продавца.
const (
	PlanBasic    = "basic"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// IsSupportedCurrency проверяет, что валюта известна платформе.
func IsSupportedCurrency(currency string) bool {
	return currency == CurrencySUI || currency == CurrencyRUB
}
