package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/chainmarket/internal/config"
	"github.com/ignatzorin/chainmarket/internal/http/handlers"
	"github.com/ignatzorin/chainmarket/internal/http/middleware"
	"github.com/ignatzorin/chainmarket/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	profileHandler *handlers.ProfileHandler,
	orderHandler *handlers.OrderHandler,
	paymentHandler *handlers.PaymentHandler,
	earningsHandler *handlers.EarningsHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	api.GET("/ws", wsHandler.Handle)

	// Денежные endpoints ограничиваем по частоте отдельно.
	moneyRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.GetMe)
		protected.PUT("/profile/wallet", profileHandler.UpdateWallet)
		protected.GET("/profile/subscription", profileHandler.GetMySubscription)

		protected.POST("/orders", moneyRateLimit, orderHandler.CreateOrder)
		protected.GET("/orders/my", orderHandler.ListMyOrders)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), orderHandler.GetOrder)

		protected.POST("/orders/:id/transfer", middleware.UUIDValidator("id"), moneyRateLimit, paymentHandler.BuildTransfer)
		protected.POST("/orders/:id/verify", middleware.UUIDValidator("id"), moneyRateLimit, paymentHandler.VerifyPayment)
		protected.POST("/payments/submit", moneyRateLimit, paymentHandler.SubmitTransfer)

		protected.GET("/earnings", earningsHandler.GetMyEarnings)

		protected.POST("/withdrawals", moneyRateLimit, withdrawalHandler.CreateWithdrawal)
		protected.GET("/withdrawals", withdrawalHandler.ListMyWithdrawals)
		protected.GET("/withdrawals/:id", middleware.UUIDValidator("id"), withdrawalHandler.GetWithdrawal)
	}

	operator := api.Group("/operator")
	operator.Use(middleware.AuthMiddleware(tokenManager), middleware.OperatorOnly())
	{
		operator.GET("/withdrawals", withdrawalHandler.ListOpenWithdrawals)
		operator.PUT("/withdrawals/:id/hold", middleware.UUIDValidator("id"), withdrawalHandler.HoldWithdrawal)
		operator.PUT("/withdrawals/:id/decision", middleware.UUIDValidator("id"), withdrawalHandler.DecideWithdrawal)
	}

	return r
}
