package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type notificationRepository struct{ s *Store }

func NewNotificationRepository(s *Store) repository.NotificationRepository {
	return &notificationRepository{s: s}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	cp := *n
	r.s.notifications[n.ID] = &cp
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, apperrors.NotFound("notification", nil)
	}
	cp := *n
	return &cp, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, apperrors.NotFound("notification", nil)
	}
	if n.ReadAt == nil {
		now := time.Now()
		n.ReadAt = &now
	}
	cp := *n
	return &cp, nil
}

func (r *notificationRepository) MarkBroadcastRead(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, apperrors.NotFound("notification", nil)
	}

	readers, ok := r.s.broadcastRead[id]
	if !ok {
		readers = make(map[uuid.UUID]time.Time)
		r.s.broadcastRead[id] = readers
	}
	// First read wins; repeat calls keep the original stamp.
	readAt, marked := readers[userID]
	if !marked {
		readAt = time.Now()
		readers[userID] = readAt
	}

	cp := *n
	cp.ReadAt = &readAt
	return &cp, nil
}

func (r *notificationRepository) UpdateDelivery(ctx context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.notifications[n.ID]
	if !ok {
		return apperrors.NotFound("notification", nil)
	}
	stored.DeliveryStatus = n.DeliveryStatus
	stored.RetryCount = n.RetryCount
	stored.LastError = n.LastError
	return nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter *model.NotificationFilter) ([]*model.Notification, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Notification
	for id, n := range r.s.notifications {
		if n.TargetUserID != nil && *n.TargetUserID != userID {
			continue
		}

		cp := *n
		if n.TargetUserID == nil {
			cp.ReadAt = nil
			if readAt, read := r.s.broadcastRead[id][userID]; read {
				cp.ReadAt = &readAt
			}
		}
		if filter.UnreadOnly && cp.ReadAt != nil {
			continue
		}
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

func (r *notificationRepository) ListRetryable(ctx context.Context, maxRetries, limit int) ([]*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Notification
	for _, n := range r.s.notifications {
		if (n.DeliveryStatus == model.DeliveryStatusFailed || n.DeliveryStatus == model.DeliveryStatusRetrying) &&
			n.RetryCount < maxRetries {
			cp := *n
			matched = append(matched, &cp)
		}
	}
	// Oldest first, same as the retry queue query.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
