package quote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/lead"
	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// LeadSyncHandler keeps the external Lead record loosely in sync with the
// quote lifecycle. It reacts to sent, accepted, and declined events, updates
// only the lead's status, unread flag, and activity log, and republishes a
// lead-changed event to the live feed. Every step is best-effort: a missing
// lead is a no-op and a failure here never reaches the quote transition.
type LeadSyncHandler struct {
	leadRepo lead.Repository
	realtime RealtimePublisher
	logger   *zap.Logger
}

// NewLeadSyncHandler creates a new handler for quote lifecycle events
func NewLeadSyncHandler(leadRepo lead.Repository, realtime RealtimePublisher, logger *zap.Logger) *LeadSyncHandler {
	return &LeadSyncHandler{
		leadRepo: leadRepo,
		realtime: realtime,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LeadSyncHandler) EventTypes() []string {
	return []string{
		quote.EventTypeQuoteSent,
		quote.EventTypeQuoteAccepted,
		quote.EventTypeQuoteDeclined,
	}
}

// Handle updates the lead matching the quote's origin document
func (h *LeadSyncHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		sourceType quote.OriginType
		sourceID   uuid.UUID
		reference  string
	)

	switch e := event.(type) {
	case *quote.QuoteSentEvent:
		sourceType, sourceID, reference = e.OriginType, e.SourceID, e.Reference
	case *quote.QuoteAcceptedEvent:
		sourceType, sourceID, reference = e.OriginType, e.SourceID, e.Reference
	case *quote.QuoteDeclinedEvent:
		sourceType, sourceID, reference = e.OriginType, e.SourceID, e.Reference
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	l, err := h.leadRepo.FindBySource(ctx, string(sourceType), sourceID)
	if err != nil {
		h.logger.Warn("lead lookup failed",
			zap.String("source_type", string(sourceType)),
			zap.String("source_id", sourceID.String()),
			zap.Error(err),
		)
		return nil
	}
	if l == nil {
		// No lead tracks this source; nothing to sync
		h.logger.Debug("no lead for quote source",
			zap.String("source_type", string(sourceType)),
			zap.String("source_id", sourceID.String()),
		)
		return nil
	}

	var note string
	switch event.EventType() {
	case quote.EventTypeQuoteSent:
		note = "quote " + reference + " sent"
		if _, err := l.TransitionTo(lead.StatusQuoted, note); err != nil {
			h.logger.Warn("lead transition failed", zap.String("lead_id", l.ID.String()), zap.Error(err))
			return nil
		}
	case quote.EventTypeQuoteAccepted:
		note = "quote " + reference + " accepted"
		if _, err := l.TransitionTo(lead.StatusClosed, note); err != nil {
			h.logger.Warn("lead transition failed", zap.String("lead_id", l.ID.String()), zap.Error(err))
			return nil
		}
	case quote.EventTypeQuoteDeclined:
		note = "quote " + reference + " declined"
		l.Touch(note)
	}

	if err := h.leadRepo.Save(ctx, l); err != nil {
		h.logger.Warn("lead save failed",
			zap.String("lead_id", l.ID.String()),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Info("lead synchronized",
		zap.String("lead_id", l.ID.String()),
		zap.String("status", l.Status.String()),
		zap.String("quote_reference", reference),
	)

	if h.realtime != nil {
		h.realtime.Publish(LeadsRoom, lead.NewLeadChangedEvent(l, note))
	}

	return nil
}

// Ensure LeadSyncHandler implements shared.EventHandler
var _ shared.EventHandler = (*LeadSyncHandler)(nil)
