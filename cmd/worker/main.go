package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/healthvault/ops-api/internal/config"
	"github.com/healthvault/ops-api/internal/email"
	"github.com/healthvault/ops-api/internal/repository/postgres"
	notificationService "github.com/healthvault/ops-api/internal/service/notification"
	"github.com/healthvault/ops-api/internal/worker"
	"github.com/healthvault/ops-api/pkg/logger"
	redisbroker "github.com/healthvault/ops-api/pkg/messaging/redis"
)

func setupHealthCheck(log *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			log.Error("health check server failed", zap.Error(err))
			os.Exit(1)
		}
	}()
}

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appLogger := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	broker, err := redisbroker.NewBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     5,
		MinIdleConns: 1,
	}, appLogger.Zerolog())
	if err != nil {
		zapLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer broker.Close()

	notificationRepo := postgres.NewNotificationRepository(db)
	userRepo := postgres.NewAppUserRepository(db)
	emailSvc := email.NewSMTPService(cfg.SMTP)
	notificationSvc := notificationService.NewService(notificationRepo, userRepo, emailSvc, broker, appLogger.Zerolog())

	retryWorker := worker.NewNotificationRetryWorker(
		notificationSvc,
		zapLogger,
		time.Duration(cfg.Worker.IntervalSeconds)*time.Second,
		cfg.Worker.MaxRetries,
		cfg.Worker.BatchSize,
	)

	setupHealthCheck(zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		zapLogger.Info("shutting down")
		cancel()
	}()

	retryWorker.Start(ctx)
}
