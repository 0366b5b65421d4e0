package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Devouko/talenthub-escrow/internal/config"
	"github.com/Devouko/talenthub-escrow/internal/db"
	"github.com/Devouko/talenthub-escrow/internal/events"
	httpHandlers "github.com/Devouko/talenthub-escrow/internal/http/handlers"
	httpRouter "github.com/Devouko/talenthub-escrow/internal/http/router"
	"github.com/Devouko/talenthub-escrow/internal/logger"
	"github.com/Devouko/talenthub-escrow/internal/metrics"
	"github.com/Devouko/talenthub-escrow/internal/repository"
	"github.com/Devouko/talenthub-escrow/internal/service"
	"github.com/Devouko/talenthub-escrow/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug", true)
	} else {
		logger.Init("info", false)
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

	tokenManager := service.NewTokenManager(cfg.JWTSecret)
	escrowMetrics := metrics.NewEscrowMetrics()

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	catalogRepo := repository.NewCatalogRepository(dbConn)
	ledgerRepo := repository.NewLedgerRepository(dbConn)
	applicationRepo := repository.NewSellerApplicationRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Сервисы.
	notificationService := service.NewNotificationService(notificationRepo)
	sellerService := service.NewSellerService(applicationRepo)
	escrowService := service.NewEscrowService(orderRepo, escrowMetrics)
	orderService := service.NewOrderService(orderRepo, catalogRepo, userRepo, sellerService, escrowMetrics)
	ledgerService := service.NewLedgerService(ledgerRepo, userRepo)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	hub.SetNotificationSaver(notificationService)
	go hub.Run()
	escrowService.SetNotifier(hub)

	// Публикация событий сделок наружу, если Kafka настроена.
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Printf("main: ошибка закрытия kafka writer: %v", err)
			}
		}()
		escrowService.SetEventPublisher(publisher)
	}

	// HTTP хэндлеры.
	orderHandler := httpHandlers.NewOrderHandler(orderService, escrowService)
	escrowHandler := httpHandlers.NewEscrowHandler(escrowService, ledgerService)
	sellerHandler := httpHandlers.NewSellerHandler(sellerService)
	paymentHandler := httpHandlers.NewPaymentHandler(ledgerService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, orderHandler, escrowHandler, sellerHandler, paymentHandler, notificationHandler, wsHandler, healthHandler, tokenManager)

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
