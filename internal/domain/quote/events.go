package quote

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// Event type constants for the quote aggregate
const (
	EventTypeQuoteCreated  = "quote.created"
	EventTypeQuoteSent     = "quote.sent"
	EventTypeQuoteViewed   = "quote.viewed"
	EventTypeQuoteAccepted = "quote.accepted"
	EventTypeQuoteDeclined = "quote.declined"
	EventTypeQuoteRevised  = "quote.revised"
)

// AggregateTypeQuote identifies the quote aggregate in event envelopes
const AggregateTypeQuote = "quote"

// QuoteCreatedEvent is published when a new draft quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	Reference  string       `json:"reference"`
	OriginType OriginType   `json:"origin_type"`
	SourceID   uuid.UUID    `json:"source_id"`
	Version    int          `json:"version"`
	Actor      shared.Actor `json:"actor"`
}

// NewQuoteCreatedEvent creates a quote created event
func NewQuoteCreatedEvent(q *Quote, actor shared.Actor) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID),
		Reference:       q.Reference,
		OriginType:      q.OriginType,
		SourceID:        q.SourceID,
		Version:         q.Version,
		Actor:           actor,
	}
}

// QuoteSentEvent is published when a quote is dispatched to its recipient
type QuoteSentEvent struct {
	shared.BaseDomainEvent
	Reference      string          `json:"reference"`
	OriginType     OriginType      `json:"origin_type"`
	SourceID       uuid.UUID       `json:"source_id"`
	RecipientName  string          `json:"recipient_name"`
	RecipientEmail string          `json:"recipient_email"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Actor          shared.Actor    `json:"actor"`
}

// NewQuoteSentEvent creates a quote sent event
func NewQuoteSentEvent(q *Quote, actor shared.Actor) *QuoteSentEvent {
	return &QuoteSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteSent, AggregateTypeQuote, q.ID),
		Reference:       q.Reference,
		OriginType:      q.OriginType,
		SourceID:        q.SourceID,
		RecipientName:   q.RecipientName,
		RecipientEmail:  q.RecipientEmail,
		TotalAmount:     q.TotalAmount,
		Actor:           actor,
	}
}

// QuoteViewedEvent is published the first time the recipient opens a sent quote
type QuoteViewedEvent struct {
	shared.BaseDomainEvent
	Reference string       `json:"reference"`
	Actor     shared.Actor `json:"actor"`
}

// NewQuoteViewedEvent creates a quote viewed event
func NewQuoteViewedEvent(q *Quote, actor shared.Actor) *QuoteViewedEvent {
	return &QuoteViewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteViewed, AggregateTypeQuote, q.ID),
		Reference:       q.Reference,
		Actor:           actor,
	}
}

// QuoteAcceptedEvent is published when the recipient signs and accepts
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	Reference      string          `json:"reference"`
	OriginType     OriginType      `json:"origin_type"`
	SourceID       uuid.UUID       `json:"source_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SignatureName  string          `json:"signature_name"`
	SignatureEmail string          `json:"signature_email"`
	Actor          shared.Actor    `json:"actor"`
}

// NewQuoteAcceptedEvent creates a quote accepted event
func NewQuoteAcceptedEvent(q *Quote, actor shared.Actor) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteAccepted, AggregateTypeQuote, q.ID),
		Reference:       q.Reference,
		OriginType:      q.OriginType,
		SourceID:        q.SourceID,
		TotalAmount:     q.TotalAmount,
		SignatureName:   q.SignatureName,
		SignatureEmail:  q.SignatureEmail,
		Actor:           actor,
	}
}

// QuoteDeclinedEvent is published when the recipient declines
type QuoteDeclinedEvent struct {
	shared.BaseDomainEvent
	Reference  string       `json:"reference"`
	OriginType OriginType   `json:"origin_type"`
	SourceID   uuid.UUID    `json:"source_id"`
	Reason     string       `json:"reason"`
	Actor      shared.Actor `json:"actor"`
}

// NewQuoteDeclinedEvent creates a quote declined event
func NewQuoteDeclinedEvent(q *Quote, actor shared.Actor) *QuoteDeclinedEvent {
	return &QuoteDeclinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteDeclined, AggregateTypeQuote, q.ID),
		Reference:       q.Reference,
		OriginType:      q.OriginType,
		SourceID:        q.SourceID,
		Reason:          q.DeclineReason,
		Actor:           actor,
	}
}

// QuoteRevisedEvent is published on the NEW revision when it is created
// from an earlier quote
type QuoteRevisedEvent struct {
	shared.BaseDomainEvent
	Reference     string       `json:"reference"`
	ParentQuoteID uuid.UUID    `json:"parent_quote_id"`
	Version       int          `json:"version"`
	Reason        string       `json:"reason"`
	Actor         shared.Actor `json:"actor"`
}

// NewQuoteRevisedEvent creates a quote revised event
func NewQuoteRevisedEvent(revision *Quote, parentID uuid.UUID, actor shared.Actor, reason string) *QuoteRevisedEvent {
	return &QuoteRevisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteRevised, AggregateTypeQuote, revision.ID),
		Reference:       revision.Reference,
		ParentQuoteID:   parentID,
		Version:         revision.Version,
		Reason:          reason,
		Actor:           actor,
	}
}
