package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/chainmarket/internal/chain"
	"github.com/ignatzorin/chainmarket/internal/config"
	"github.com/ignatzorin/chainmarket/internal/db"
	"github.com/ignatzorin/chainmarket/internal/goroutine"
	httpHandlers "github.com/ignatzorin/chainmarket/internal/http/handlers"
	httpRouter "github.com/ignatzorin/chainmarket/internal/http/router"
	"github.com/ignatzorin/chainmarket/internal/logger"
	"github.com/ignatzorin/chainmarket/internal/repository"
	"github.com/ignatzorin/chainmarket/internal/service"
	"github.com/ignatzorin/chainmarket/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	chainClient := chain.NewClient(cfg.ChainRPCURL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	withdrawalRepo := repository.NewWithdrawalRepository(dbConn)
	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)
	notifier := ws.NewNotifier(hub)

	// Сервисы.
	feePolicy := service.NewFeePolicy(subscriptionRepo)
	orderService := service.NewOrderService(orderRepo, userRepo, feePolicy)
	paymentService := service.NewPaymentService(orderRepo, chainClient, notifier,
		cfg.PlatformWallet, cfg.ChainPollInterval, cfg.ChainConfirmTimeout)
	earningsService := service.NewEarningsService(orderRepo, withdrawalRepo)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, earningsService, notifier, cfg.MinWithdrawalAmount)

	// HTTP хэндлеры.
	profileHandler := httpHandlers.NewProfileHandler(userRepo, subscriptionRepo)
	orderHandler := httpHandlers.NewOrderHandler(orderService)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentService)
	earningsHandler := httpHandlers.NewEarningsHandler(earningsService)
	withdrawalHandler := httpHandlers.NewWithdrawalHandler(withdrawalService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, profileHandler, orderHandler, paymentHandler, earningsHandler, withdrawalHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
