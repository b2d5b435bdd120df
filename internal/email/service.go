package email

import (
	"context"
)

// Service sends transactional mail for the email notification
// channel.
type Service interface {
	Send(ctx context.Context, to, subject, body string) error
}
