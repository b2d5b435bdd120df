package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	"github.com/healthvault/ops-api/internal/repository/memory"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
	"github.com/healthvault/ops-api/pkg/messaging"
)

type fakeBroker struct {
	published []messaging.Message
	fail      bool
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.fail {
		return errors.New("broker unavailable")
	}
	if msg, ok := message.(messaging.Message); ok {
		b.published = append(b.published, msg)
	}
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

type fakeEmail struct {
	sent []string
	fail bool
}

func (e *fakeEmail) Send(ctx context.Context, to, subject, body string) error {
	if e.fail {
		return errors.New("smtp unavailable")
	}
	e.sent = append(e.sent, to)
	return nil
}

type fixture struct {
	svc    *Service
	broker *fakeBroker
	email  *fakeEmail
	users  repository.AppUserRepository
	staff  *model.AppUser
	target *model.AppUser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	users := memory.NewAppUserRepository(store)
	broker := &fakeBroker{}
	emailSvc := &fakeEmail{}
	logger := zerolog.Nop()
	svc := NewService(memory.NewNotificationRepository(store), users, emailSvc, broker, &logger)

	staffEmail := "nurse@hospital.example"
	staff := &model.AppUser{Email: &staffEmail, Role: model.RoleStaff, IsActive: true}
	require.NoError(t, users.Create(ctx, staff))

	targetEmail := "guardian@example.com"
	target := &model.AppUser{Email: &targetEmail, Role: model.RoleGuardian, IsActive: true}
	require.NoError(t, users.Create(ctx, target))

	return &fixture{svc: svc, broker: broker, email: emailSvc, users: users, staff: staff, target: target}
}

func TestSendInApp(t *testing.T) {
	f := newFixture(t)

	n, err := f.svc.Send(context.Background(), f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &f.target.ID,
		Title:        "Visiting hours",
		Message:      "Ward A visiting hours move to 16:00 today.",
		Channel:      model.ChannelInApp,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusSent, n.DeliveryStatus)

	require.Len(t, f.broker.published, 1)
	assert.Equal(t, "in_app_notification", f.broker.published[0].Type)
	event, ok := f.broker.published[0].Payload.(model.NotificationEvent)
	require.True(t, ok)
	assert.Equal(t, n.ID, event.NotificationID)
}

func TestSendEmail(t *testing.T) {
	f := newFixture(t)

	n, err := f.svc.Send(context.Background(), f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &f.target.ID,
		Title:        "Discharge summary",
		Message:      "Your discharge summary is ready.",
		Channel:      model.ChannelEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusSent, n.DeliveryStatus)
	assert.Equal(t, []string{"guardian@example.com"}, f.email.sent)
}

func TestSendSMSMarksFailed(t *testing.T) {
	f := newFixture(t)

	n, err := f.svc.Send(context.Background(), f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &f.target.ID,
		Title:        "Reminder",
		Message:      "Appointment tomorrow at 10:00.",
		Channel:      model.ChannelSMS,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusFailed, n.DeliveryStatus)
	require.NotNil(t, n.LastError)
	assert.Contains(t, *n.LastError, "sms")
}

func TestSendBadRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		Title: "x", Message: "y", Channel: "carrier-pigeon",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	missing := uuid.New()
	_, err = f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &missing, Title: "x", Message: "y", Channel: model.ChannelInApp,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMarkReadTargeted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &f.target.ID,
		Title:        "Visiting hours",
		Message:      "Moved to 16:00.",
		Channel:      model.ChannelInApp,
	})
	require.NoError(t, err)

	first, err := f.svc.MarkRead(ctx, n.ID, f.target.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)

	// Repeat reads keep the original stamp.
	second, err := f.svc.MarkRead(ctx, n.ID, f.target.ID)
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.Equal(t, *first.ReadAt, *second.ReadAt)

	// Anyone else is rejected.
	_, err = f.svc.MarkRead(ctx, n.ID, f.staff.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestMarkReadBroadcast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		Title:   "Fire drill",
		Message: "Drill at noon, all wards.",
		Channel: model.ChannelInApp,
	})
	require.NoError(t, err)

	readerA, err := f.svc.MarkRead(ctx, n.ID, f.target.ID)
	require.NoError(t, err)
	require.NotNil(t, readerA.ReadAt)

	again, err := f.svc.MarkRead(ctx, n.ID, f.target.ID)
	require.NoError(t, err)
	assert.Equal(t, *readerA.ReadAt, *again.ReadAt)

	// Each reader carries their own mark; the staff user starts unread.
	readerB, err := f.svc.MarkRead(ctx, n.ID, f.staff.ID)
	require.NoError(t, err)
	require.NotNil(t, readerB.ReadAt)
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	targeted, err := f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &f.target.ID,
		Title:        "For you",
		Message:      "Targeted message.",
		Channel:      model.ChannelInApp,
	})
	require.NoError(t, err)

	_, err = f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		Title:   "For everyone",
		Message: "Broadcast message.",
		Channel: model.ChannelInApp,
	})
	require.NoError(t, err)

	_, err = f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &f.staff.ID,
		Title:        "Not for you",
		Message:      "Someone else's message.",
		Channel:      model.ChannelInApp,
	})
	require.NoError(t, err)

	// The target sees their own plus the broadcast.
	rows, total, err := f.svc.ListForUser(ctx, f.target.ID, &model.NotificationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, rows, 2)

	// Reading the targeted one drops it from the unread view.
	_, err = f.svc.MarkRead(ctx, targeted.ID, f.target.ID)
	require.NoError(t, err)

	rows, total, err = f.svc.ListForUser(ctx, f.target.ID, &model.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "For everyone", rows[0].Title)
}

func TestRetryPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.broker.fail = true
	n, err := f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &f.target.ID,
		Title:        "Flaky",
		Message:      "Broker was down when this went out.",
		Channel:      model.ChannelInApp,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusFailed, n.DeliveryStatus)
	assert.Empty(t, f.broker.published)

	// Broker still down: the attempt burns a retry but stays failed.
	attempted, sent, err := f.svc.RetryPending(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, attempted)
	assert.Equal(t, 0, sent)

	f.broker.fail = false
	attempted, sent, err = f.svc.RetryPending(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, attempted)
	assert.Equal(t, 1, sent)
	assert.Len(t, f.broker.published, 1)

	// Nothing left to retry.
	attempted, sent, err = f.svc.RetryPending(ctx, 3, 10)
	require.NoError(t, err)
	assert.Zero(t, attempted)
	assert.Zero(t, sent)
}

func TestRetryBudgetExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.broker.fail = true
	_, err := f.svc.Send(ctx, f.staff.ID, &model.SendNotificationRequest{
		TargetUserID: &f.target.ID,
		Title:        "Doomed",
		Message:      "Broker never comes back.",
		Channel:      model.ChannelInApp,
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		attempted, _, err := f.svc.RetryPending(ctx, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, attempted)
	}

	// Budget of 2 spent; the row no longer matches.
	attempted, _, err := f.svc.RetryPending(ctx, 2, 10)
	require.NoError(t, err)
	assert.Zero(t, attempted)
}
