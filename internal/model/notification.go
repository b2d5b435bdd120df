package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "in_app"
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

func (c NotificationChannel) Valid() bool {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelSMS:
		return true
	}
	return false
}

type DeliveryStatus string

const (
	DeliveryStatusPending  DeliveryStatus = "pending"
	DeliveryStatusSent     DeliveryStatus = "sent"
	DeliveryStatusFailed   DeliveryStatus = "failed"
	DeliveryStatusRetrying DeliveryStatus = "retrying"
)

// Notification is a targeted or broadcast message. A nil TargetUserID
// means broadcast: visible to every eligible recipient of the
// channel. ReadAt on the row tracks targeted reads; broadcast reads
// are tracked per reader in notification_read.
type Notification struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	CreatedBy      uuid.UUID           `json:"created_by" db:"created_by"`
	TargetUserID   *uuid.UUID          `json:"target_user_id,omitempty" db:"target_user_id"`
	Title          string              `json:"title" db:"title"`
	Message        string              `json:"message" db:"message"`
	Channel        NotificationChannel `json:"channel" db:"channel"`
	DeliveryStatus DeliveryStatus      `json:"delivery_status" db:"delivery_status"`
	RetryCount     int                 `json:"-" db:"retry_count"`
	LastError      *string             `json:"-" db:"last_error"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	ReadAt         *time.Time          `json:"read_at,omitempty" db:"read_at"`
}

// Broadcast reports whether the notification has no specific target.
func (n *Notification) Broadcast() bool {
	return n.TargetUserID == nil
}

// NotificationEvent is the payload published to the in-app channel.
type NotificationEvent struct {
	NotificationID uuid.UUID  `json:"notification_id"`
	TargetUserID   *uuid.UUID `json:"target_user_id,omitempty"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	CreatedAt      time.Time  `json:"created_at"`
}

type SendNotificationRequest struct {
	TargetUserID *uuid.UUID          `json:"target_user_id"`
	Title        string              `json:"title" validate:"required,max=120"`
	Message      string              `json:"message" validate:"required,max=4000"`
	Channel      NotificationChannel `json:"channel" validate:"required"`
}

type NotificationFilter struct {
	UnreadOnly bool `form:"unread_only"`
	Pagination
}
