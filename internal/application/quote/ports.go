package quote

import (
	"context"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// Notification categories used by the quote subsystem
const (
	NotificationCategoryQuoteUpdates = "quote_updates"
)

// Notification is one outbound message to a participant
type Notification struct {
	Recipient shared.Actor
	Category  string
	Subject   string
	Body      string
}

// Notifier dispatches notifications to participants. Dispatch is
// fire-and-forget: failures are logged by the caller and never propagate
// into the mutating operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// RealtimePublisher pushes payloads to named rooms (`quote:<id>`, `leads`).
// Publishing is best-effort; a room with no subscribers is a no-op.
type RealtimePublisher interface {
	Publish(room string, payload any)
}

// QuoteRoom returns the realtime room name for one quote's chat channel
func QuoteRoom(quoteID string) string {
	return "quote:" + quoteID
}

// LeadsRoom is the realtime room carrying the live lead feed
const LeadsRoom = "leads"
