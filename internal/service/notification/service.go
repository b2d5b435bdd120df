package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthvault/ops-api/internal/email"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
	"github.com/healthvault/ops-api/pkg/messaging"
)

const inAppTopic = "notifications"

// Service dispatches targeted or broadcast messages and tracks reads.
type Service struct {
	repo     repository.NotificationRepository
	users    repository.AppUserRepository
	emailSvc email.Service
	broker   messaging.Broker
	logger   *zerolog.Logger
}

func NewService(
	repo repository.NotificationRepository,
	users repository.AppUserRepository,
	emailSvc email.Service,
	broker messaging.Broker,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		emailSvc: emailSvc,
		broker:   broker,
		logger:   logger,
	}
}

// Send records the notification and pushes it out over its channel.
// A nil target means broadcast. Delivery failures never fail the
// call; the row is marked for the retry worker instead.
func (s *Service) Send(ctx context.Context, sender uuid.UUID, req *model.SendNotificationRequest) (*model.Notification, error) {
	if !req.Channel.Valid() {
		return nil, apperrors.Validationf("unknown channel %q", req.Channel)
	}
	if req.TargetUserID != nil {
		if _, err := s.users.Get(ctx, *req.TargetUserID); err != nil {
			return nil, err
		}
	}

	n := &model.Notification{
		CreatedBy:      sender,
		TargetUserID:   req.TargetUserID,
		Title:          req.Title,
		Message:        req.Message,
		Channel:        req.Channel,
		DeliveryStatus: model.DeliveryStatusPending,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.deliver(ctx, n)
	return n, nil
}

func (s *Service) deliver(ctx context.Context, n *model.Notification) {
	var err error
	switch n.Channel {
	case model.ChannelInApp:
		err = s.broker.Publish(ctx, inAppTopic, messaging.Message{
			Type: "in_app_notification",
			Payload: model.NotificationEvent{
				NotificationID: n.ID,
				TargetUserID:   n.TargetUserID,
				Title:          n.Title,
				Message:        n.Message,
				CreatedAt:      n.CreatedAt,
			},
		})
	case model.ChannelEmail:
		err = s.sendEmail(ctx, n)
	case model.ChannelSMS:
		// No SMS provider is wired up; the row stays visible in-app
		// and delivery is marked failed for the worker.
		err = errors.New("sms delivery not configured")
	}

	if err != nil {
		s.logger.Warn().Err(err).
			Str("notification_id", n.ID.String()).
			Str("channel", string(n.Channel)).
			Msg("delivery failed, queued for retry")
		n.DeliveryStatus = model.DeliveryStatusFailed
		msg := err.Error()
		n.LastError = &msg
	} else {
		n.DeliveryStatus = model.DeliveryStatusSent
	}

	if updateErr := s.repo.UpdateDelivery(ctx, n); updateErr != nil {
		s.logger.Error().Err(updateErr).
			Str("notification_id", n.ID.String()).
			Msg("failed to record delivery status")
	}
}

func (s *Service) sendEmail(ctx context.Context, n *model.Notification) error {
	if n.TargetUserID == nil {
		return apperrors.Validationf("email notifications require a target user")
	}
	target, err := s.users.Get(ctx, *n.TargetUserID)
	if err != nil {
		return err
	}
	if target.Email == nil {
		return apperrors.Validationf("target user has no email address")
	}
	return s.emailSvc.Send(ctx, *target.Email, n.Title, n.Message)
}

// RetryPending re-attempts delivery for failed notifications, oldest
// first, and returns how many were attempted and how many went out.
// Rows that exhaust their retry budget stop matching the retryable
// query and stay failed.
func (s *Service) RetryPending(ctx context.Context, maxRetries, batch int) (attempted, sent int, err error) {
	rows, err := s.repo.ListRetryable(ctx, maxRetries, batch)
	if err != nil {
		return 0, 0, err
	}

	for _, n := range rows {
		n.RetryCount++
		s.deliver(ctx, n)
		attempted++
		if n.DeliveryStatus == model.DeliveryStatusSent {
			sent++
		}
	}
	return attempted, sent, nil
}

// MarkRead stamps the read time once; repeat calls by the same
// eligible reader succeed without moving the stamp. A reader who is
// neither the target nor a broadcast recipient gets ForbiddenError.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID, reader uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if n.Broadcast() {
		return s.repo.MarkBroadcastRead(ctx, id, reader)
	}
	if *n.TargetUserID != reader {
		return nil, apperrors.Forbidden("notification is addressed to another user", nil)
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, filter *model.NotificationFilter) ([]*model.Notification, int, error) {
	return s.repo.ListForUser(ctx, userID, filter)
}
