package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-service/config"
	"inventory-service/internal/api"
	"inventory-service/internal/broker"
	"inventory-service/internal/redisclient"
	"inventory-service/internal/service"
	"inventory-service/internal/store"
	"inventory-service/internal/util"
	"inventory-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting inventory service", zap.String("env", cfg.Server.Env))

	tp, err := util.InitTracer("inventory-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database connected", zap.String("driver", db.Driver()))

	checks := map[string]api.Pinger{"database": db}

	// cache and locker stay untyped nil without Redis
	var (
		cache  service.StockCache
		locker service.KeyLocker
	)
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StockCacheTTL)
	if err != nil {
		logger.Warn("Redis unavailable, running without stock cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		cache, locker = redisClient, redisClient
		checks["redis"] = redisClient
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher service.EventPublisher
	kafkaEnabled := cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0
	if kafkaEnabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicInventory)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		logger.Warn("Kafka disabled, events will not be published")
	}

	saleService := service.NewSaleService(db, cache, locker, publisher, service.SaleOptions{
		TxTimeout:         cfg.Business.SaleTxTimeout,
		MaxAttempts:       cfg.Business.SaleMaxAttempts,
		LowStockThreshold: cfg.Business.LowStockThreshold,
	})
	purchaseService := service.NewPurchaseService(db, cache, publisher)
	inventoryService := service.NewInventoryService(db, cache, cfg.Business.LowStockThreshold)
	accountService := service.NewAccountService(db, cfg.Business.DefaultPhoneRegion)
	billingService := service.NewBillingService(db, cfg.Business.DefaultPhoneRegion)
	loyaltyService := service.NewLoyaltyService(db, cfg.Business.LoyaltyPointValue)

	if err := inventoryService.SyncStockCache(ctx); err != nil {
		logger.Warn("Failed to sync stock to Redis", zap.Error(err))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var saleWorker *worker.SaleEventWorker
	if kafkaEnabled {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicInventory, cfg.Kafka.ConsumerGroup)
		saleWorker = worker.NewSaleEventWorker(consumer, loyaltyService, inventoryService)
		go func() {
			if err := saleWorker.Start(workerCtx); err != nil {
				logger.Error("Sale event worker stopped", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(api.Services{
		Sales:     saleService,
		Purchases: purchaseService,
		Inventory: inventoryService,
		Accounts:  accountService,
		Billing:   billingService,
	}, checks)
	handler.SetupRoutes(router, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if saleWorker != nil {
		if err := saleWorker.Stop(); err != nil {
			logger.Error("Error stopping sale event worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
