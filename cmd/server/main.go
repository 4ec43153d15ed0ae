package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atelierprint/printshop-service/config"
	"github.com/atelierprint/printshop-service/pkg/broker"
	"github.com/atelierprint/printshop-service/pkg/cache"
	"github.com/atelierprint/printshop-service/pkg/database"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/atelierprint/printshop-service/pkg/search"

	"github.com/atelierprint/printshop-service/internal/middleware"
	"github.com/atelierprint/printshop-service/internal/upload"

	clientH "github.com/atelierprint/printshop-service/internal/client/handler"
	clientRepoPkg "github.com/atelierprint/printshop-service/internal/client/repository"
	clientUCPkg "github.com/atelierprint/printshop-service/internal/client/usecase"

	empH "github.com/atelierprint/printshop-service/internal/employee/handler"
	empRepoPkg "github.com/atelierprint/printshop-service/internal/employee/repository"
	empUCPkg "github.com/atelierprint/printshop-service/internal/employee/usecase"

	matH "github.com/atelierprint/printshop-service/internal/material/handler"
	matListenerPkg "github.com/atelierprint/printshop-service/internal/material/listener"
	matRepoPkg "github.com/atelierprint/printshop-service/internal/material/repository"
	matUCPkg "github.com/atelierprint/printshop-service/internal/material/usecase"

	notifH "github.com/atelierprint/printshop-service/internal/notification/handler"
	notifListenerPkg "github.com/atelierprint/printshop-service/internal/notification/listener"
	notifRepoPkg "github.com/atelierprint/printshop-service/internal/notification/repository"
	notifUCPkg "github.com/atelierprint/printshop-service/internal/notification/usecase"

	orderH "github.com/atelierprint/printshop-service/internal/order/handler"
	orderRepoPkg "github.com/atelierprint/printshop-service/internal/order/repository"
	orderUCPkg "github.com/atelierprint/printshop-service/internal/order/usecase"

	payH "github.com/atelierprint/printshop-service/internal/payment/handler"
	payRepoPkg "github.com/atelierprint/printshop-service/internal/payment/repository"
	payUCPkg "github.com/atelierprint/printshop-service/internal/payment/usecase"

	uploadH "github.com/atelierprint/printshop-service/internal/upload/handler"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka producers and consumers. Order lifecycle events and
	// payment settlements travel on separate topics, so each family gets its
	// own producer.
	ordersProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
	})
	defer ordersProducer.Close()

	paymentsProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.PaymentsTopic,
	})
	defer paymentsProducer.Close()

	stockConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
		GroupID: cfg.Kafka.StockGroupID,
	})
	defer stockConsumer.Close()

	notifOrdersConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
		GroupID: cfg.Kafka.NotificationsGroup,
	})
	defer notifOrdersConsumer.Close()

	notifPaymentsConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.PaymentsTopic,
		GroupID: cfg.Kafka.NotificationsGroup,
	})
	defer notifPaymentsConsumer.Close()
	appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))

	// 6. Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (search falls back to SQL)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Repositories
	matRepo := matRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	payRepo := payRepoPkg.NewPGRepository(db)
	clientRepo := clientRepoPkg.NewPGRepository(db)
	empRepo := empRepoPkg.NewPGRepository(db)
	notifRepo := notifRepoPkg.NewPGRepository(db)

	// 8. UseCases
	matUC := matUCPkg.NewMaterialUseCase(matRepo, redisClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, matUC, redisClient, esClient, ordersProducer, appLogger)
	payUC := payUCPkg.NewPaymentUseCase(payRepo, orderRepo, paymentsProducer, appLogger)
	clientUC := clientUCPkg.NewClientUseCase(clientRepo, appLogger)
	jwtTTL := time.Duration(cfg.JWT.TTLHours) * time.Hour
	empUC := empUCPkg.NewEmployeeUseCase(empRepo, cfg.JWT.SecretKey, jwtTTL, appLogger)
	notifStore := notifUCPkg.NewNotificationStore(notifRepo, appLogger)

	uploadSvc := upload.NewService(cfg.Upload.Dir, cfg.Upload.MaxFileSize, cfg.Upload.MaxFileCount, appLogger)

	// 9. Listeners
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stockListener := matListenerPkg.NewStockListener(stockConsumer, matUC, appLogger)
	go stockListener.Start(ctx)

	notifListener := notifListenerPkg.NewNotificationListener(notifOrdersConsumer, notifPaymentsConsumer, notifStore, appLogger)
	go notifListener.Start(ctx)

	// 10. HTTP routing
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(appLogger))

	empHandler := empH.NewHandler(empUC, appLogger)
	empHandler.RegisterPublicRoutes(router)

	authn := middleware.NewAuthenticator(cfg.JWT.SecretKey, appLogger)
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authn.Authenticate)

	matH.NewHandler(matUC, appLogger).RegisterRoutes(api)
	orderH.NewHandler(orderUC, appLogger).RegisterRoutes(api)
	payH.NewHandler(payUC, appLogger).RegisterRoutes(api)
	clientH.NewHandler(clientUC, appLogger).RegisterRoutes(api)
	empHandler.RegisterRoutes(api)
	notifH.NewHandler(notifStore, appLogger).RegisterRoutes(api)
	uploadH.NewHandler(uploadSvc, appLogger).RegisterRoutes(api)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	// 11. Start HTTP server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	srv := &http.Server{
		Addr:         port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
