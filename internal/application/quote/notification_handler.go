package quote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// NotificationHandler dispatches participant notifications for quote
// lifecycle events: the recipient hears about newly sent quotes, the
// preparer hears about acceptance and decline. Dispatch failures are
// logged and swallowed.
type NotificationHandler struct {
	quoteRepo quote.Repository
	notifier  Notifier
	logger    *zap.Logger
}

// NewNotificationHandler creates a new handler for quote lifecycle events
func NewNotificationHandler(quoteRepo quote.Repository, notifier Notifier, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		quoteRepo: quoteRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationHandler) EventTypes() []string {
	return []string{
		quote.EventTypeQuoteSent,
		quote.EventTypeQuoteAccepted,
		quote.EventTypeQuoteDeclined,
	}
}

// Handle builds and dispatches the notification for one lifecycle event
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	q, err := h.quoteRepo.FindByID(ctx, event.AggregateID())
	if err != nil {
		h.logger.Warn("quote lookup failed for notification",
			zap.String("quote_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return nil
	}

	var n Notification
	switch event.EventType() {
	case quote.EventTypeQuoteSent:
		n = Notification{
			Recipient: shared.NewActor(q.RecipientName, q.RecipientEmail),
			Category:  NotificationCategoryQuoteUpdates,
			Subject:   "Quote " + q.Reference + " is ready for review",
			Body:      fmt.Sprintf("%s sent you a quote for %s.", q.PreparedByName, q.TotalMoney()),
		}
	case quote.EventTypeQuoteAccepted:
		n = Notification{
			Recipient: shared.NewActor(q.PreparedByName, q.PreparedByEmail),
			Category:  NotificationCategoryQuoteUpdates,
			Subject:   "Quote " + q.Reference + " was accepted",
			Body:      fmt.Sprintf("%s accepted quote %s.", q.SignatureName, q.Reference),
		}
	case quote.EventTypeQuoteDeclined:
		n = Notification{
			Recipient: shared.NewActor(q.PreparedByName, q.PreparedByEmail),
			Category:  NotificationCategoryQuoteUpdates,
			Subject:   "Quote " + q.Reference + " was declined",
			Body:      fmt.Sprintf("Quote %s was declined: %s", q.Reference, q.DeclineReason),
		}
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	if err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.Warn("notification dispatch failed",
			zap.String("quote_id", q.ID.String()),
			zap.String("recipient", n.Recipient.Email),
			zap.Error(err),
		)
	}

	return nil
}

// Ensure NotificationHandler implements shared.EventHandler
var _ shared.EventHandler = (*NotificationHandler)(nil)
