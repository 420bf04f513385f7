package notification

import (
	"context"

	"go.uber.org/zap"

	appquote "github.com/quotedesk/backend/internal/application/quote"
)

// LogNotifier is a Notifier that records deliveries in the application log.
// It stands in for a real email or push channel in development and keeps
// the delivery path observable in production until one is wired up.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

// Notify logs the notification instead of delivering it
func (n *LogNotifier) Notify(ctx context.Context, notification appquote.Notification) error {
	n.logger.Info("notification dispatched",
		zap.String("recipient", notification.Recipient.Email),
		zap.String("category", notification.Category),
		zap.String("subject", notification.Subject),
	)
	return nil
}

// Ensure LogNotifier implements Notifier
var _ appquote.Notifier = (*LogNotifier)(nil)
