package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	_ "github.com/lib/pq"

	"github.com/healthvault/ops-api/internal/config"
	"github.com/healthvault/ops-api/internal/email"
	"github.com/healthvault/ops-api/internal/handler"
	accessHandler "github.com/healthvault/ops-api/internal/handler/access"
	admissionHandler "github.com/healthvault/ops-api/internal/handler/admission"
	authHandler "github.com/healthvault/ops-api/internal/handler/auth"
	bookingHandler "github.com/healthvault/ops-api/internal/handler/booking"
	canteenHandler "github.com/healthvault/ops-api/internal/handler/canteen"
	complaintHandler "github.com/healthvault/ops-api/internal/handler/complaint"
	directoryHandler "github.com/healthvault/ops-api/internal/handler/directory"
	medorderHandler "github.com/healthvault/ops-api/internal/handler/medorder"
	notificationHandler "github.com/healthvault/ops-api/internal/handler/notification"
	patientHandler "github.com/healthvault/ops-api/internal/handler/patient"
	reportHandler "github.com/healthvault/ops-api/internal/handler/report"
	"github.com/healthvault/ops-api/internal/middleware"
	"github.com/healthvault/ops-api/internal/repository/postgres"
	"github.com/healthvault/ops-api/internal/router"
	accessService "github.com/healthvault/ops-api/internal/service/access"
	admissionService "github.com/healthvault/ops-api/internal/service/admission"
	canteenService "github.com/healthvault/ops-api/internal/service/canteen"
	complaintService "github.com/healthvault/ops-api/internal/service/complaint"
	directoryService "github.com/healthvault/ops-api/internal/service/directory"
	identityService "github.com/healthvault/ops-api/internal/service/identity"
	medorderService "github.com/healthvault/ops-api/internal/service/medorder"
	notificationService "github.com/healthvault/ops-api/internal/service/notification"
	patientService "github.com/healthvault/ops-api/internal/service/patient"
	reportService "github.com/healthvault/ops-api/internal/service/report"
	schedulerService "github.com/healthvault/ops-api/internal/service/scheduler"
	"github.com/healthvault/ops-api/pkg/auth"
	"github.com/healthvault/ops-api/pkg/logger"
	redisbroker "github.com/healthvault/ops-api/pkg/messaging/redis"
	"github.com/healthvault/ops-api/pkg/security"
	"github.com/healthvault/ops-api/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})
	log.Logger = *appLogger.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	reportStore, err := reportService.NewFSStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize report storage")
	}

	// Repositories
	userRepo := postgres.NewAppUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	directoryRepo := postgres.NewDirectoryRepository(db)
	admissionRepo := postgres.NewAdmissionRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	accessRepo := postgres.NewAccessRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	medOrderRepo := postgres.NewMedicalOrderRepository(db)
	complaintRepo := postgres.NewComplaintRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	// Services
	tokens := auth.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryDays)*24*time.Hour)
	hasher := security.NewBcryptHasher(0)
	emailSvc := email.NewSMTPService(cfg.SMTP)

	identitySvc := identityService.NewService(userRepo, hasher, tokens)
	patientSvc := patientService.NewService(patientRepo)
	directorySvc := directoryService.NewService(directoryRepo)
	admissionSvc := admissionService.NewService(admissionRepo, patientRepo, directoryRepo)
	schedulerSvc := schedulerService.NewService(bookingRepo, directoryRepo, patientRepo, schedulerService.Config{
		DayStart:    cfg.Scheduler.DayStart,
		DayEnd:      cfg.Scheduler.DayEnd,
		SlotMinutes: cfg.Scheduler.SlotMinutes,
	})
	canteenSvc := canteenService.NewService(orderRepo, directoryRepo, patientRepo)
	accessSvc := accessService.NewService(accessRepo, userRepo, patientRepo)
	notificationSvc := notificationService.NewService(notificationRepo, userRepo, emailSvc, broker, appLogger.Zerolog())
	medOrderSvc := medorderService.NewService(medOrderRepo, admissionRepo)
	complaintSvc := complaintService.NewService(complaintRepo, admissionRepo, patientRepo)
	reportSvc := reportService.NewService(reportRepo, patientRepo, admissionRepo, reportStore)

	// Handlers
	validate := validator.New()
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(identitySvc, validate)

	authMiddleware := middleware.NewAuthMiddleware(identitySvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		h,
		router.Config{
			RateLimitRPS:  100,
			RateBurst:     200,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "ops_api",
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
		patientHandler.NewHandler(patientSvc, accessSvc, validate),
		directoryHandler.NewHandler(directorySvc, validate),
		admissionHandler.NewHandler(admissionSvc, validate),
		bookingHandler.NewHandler(schedulerSvc, validate),
		canteenHandler.NewHandler(canteenSvc, validate),
		accessHandler.NewHandler(accessSvc, validate),
		notificationHandler.NewHandler(notificationSvc, validate),
		medorderHandler.NewHandler(medOrderSvc, validate),
		complaintHandler.NewHandler(complaintSvc, validate),
		reportHandler.NewHandler(reportSvc, validate),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
