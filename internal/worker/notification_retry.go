package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/healthvault/ops-api/internal/service/notification"
)

var (
	retriedNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_retries_total",
		Help: "The total number of notification delivery retries attempted",
	})
	redeliveredNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_redeliveries_total",
		Help: "The total number of notifications delivered on retry",
	})
	retryPassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notification_retry_pass_duration_seconds",
		Help:    "Time spent per retry pass",
		Buckets: prometheus.DefBuckets,
	})
)

// NotificationRetryWorker periodically re-drives failed notification
// deliveries until they succeed or exhaust their retry budget.
type NotificationRetryWorker struct {
	service    *notification.Service
	logger     *zap.Logger
	interval   time.Duration
	maxRetries int
	batchSize  int
}

func NewNotificationRetryWorker(service *notification.Service, logger *zap.Logger, interval time.Duration, maxRetries, batchSize int) *NotificationRetryWorker {
	return &NotificationRetryWorker{
		service:    service,
		logger:     logger,
		interval:   interval,
		maxRetries: maxRetries,
		batchSize:  batchSize,
	}
}

func (w *NotificationRetryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("notification retry worker started",
		zap.Duration("interval", w.interval),
		zap.Int("max_retries", w.maxRetries),
		zap.Int("batch_size", w.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification retry worker shutting down")
			return
		case <-ticker.C:
			if err := w.pass(ctx); err != nil {
				w.logger.Error("retry pass failed", zap.Error(err))
			}
		}
	}
}

func (w *NotificationRetryWorker) pass(ctx context.Context) error {
	timer := prometheus.NewTimer(retryPassDuration)
	defer timer.ObserveDuration()

	attempted, sent, err := w.service.RetryPending(ctx, w.maxRetries, w.batchSize)
	if err != nil {
		return err
	}

	retriedNotifications.Add(float64(attempted))
	redeliveredNotifications.Add(float64(sent))
	if sent > 0 {
		w.logger.Info("redelivered notifications",
			zap.Int("attempted", attempted),
			zap.Int("sent", sent),
		)
	}
	return nil
}
