package lead

import (
	"github.com/google/uuid"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// EventTypeLeadChanged is republished to the live lead feed after the
// synchronizer updates a lead
const EventTypeLeadChanged = "lead.changed"

// AggregateTypeLead identifies the lead aggregate in event envelopes
const AggregateTypeLead = "lead"

// LeadChangedEvent carries the lead's new state to dashboard feeds
type LeadChangedEvent struct {
	shared.BaseDomainEvent
	SourceType string    `json:"source_type"`
	SourceID   uuid.UUID `json:"source_id"`
	Status     Status    `json:"status"`
	IsUnread   bool      `json:"is_unread"`
	Note       string    `json:"note"`
}

// NewLeadChangedEvent creates a lead changed event
func NewLeadChangedEvent(l *Lead, note string) *LeadChangedEvent {
	return &LeadChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadChanged, AggregateTypeLead, l.ID),
		SourceType:      l.SourceType,
		SourceID:        l.SourceID,
		Status:          l.Status,
		IsUnread:        l.IsUnread,
		Note:            note,
	}
}
