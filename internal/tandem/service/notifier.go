package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/tandem/pkg/slogx"
)

// Notifier delivers out-of-band messages to a user. Delivery is best
// effort; callers log failures and carry on.
type Notifier interface {
	SendVerification(ctx context.Context, username, email, link string) error
}

// LogNotifier writes the verification link to the log instead of sending
// mail.
type LogNotifier struct{}

func (LogNotifier) SendVerification(ctx context.Context, username, email, link string) error {
	slogx.FromContext(ctx).Info("verification link issued",
		slog.String("username", username),
		slog.String("email", email),
		slog.String("link", link),
	)
	return nil
}
