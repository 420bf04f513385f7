package chat

import (
	"github.com/google/uuid"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// EventTypeMessagePosted is published after a chat message is persisted
const EventTypeMessagePosted = "quote.message_posted"

// AggregateTypeMessage identifies chat messages in event envelopes
const AggregateTypeMessage = "quote_message"

// MessagePostedEvent carries a new chat message to the notification and
// realtime handlers
type MessagePostedEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID `json:"quote_id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Body        string    `json:"body"`
}

// NewMessagePostedEvent creates a message posted event
func NewMessagePostedEvent(m *Message) *MessagePostedEvent {
	return &MessagePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessagePosted, AggregateTypeMessage, m.ID),
		QuoteID:         m.QuoteID,
		SenderName:      m.SenderName,
		SenderEmail:     m.SenderEmail,
		Body:            m.Body,
	}
}
