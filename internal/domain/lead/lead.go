package lead

import (
	"time"

	"github.com/google/uuid"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// Status represents a lead's position in the sales pipeline
type Status string

const (
	StatusNew    Status = "new"
	StatusQuoted Status = "quoted"
	StatusClosed Status = "closed"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusQuoted, StatusClosed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Lead is an external sales-pipeline record owned by another subsystem.
// The quoting side only updates status, the unread flag, and the activity
// log; it never creates or deletes leads.
type Lead struct {
	shared.BaseAggregateRoot
	SourceType string
	SourceID   uuid.UUID
	Status     Status
	IsUnread   bool
	Activities []Activity `gorm:"foreignKey:LeadID"`
}

// TableName maps the aggregate to its table
func (Lead) TableName() string {
	return "leads"
}

// TransitionTo moves the lead to a new status, marks it unread, and appends
// an activity recording the old and new status. A no-op when the lead is
// already at the target status.
func (l *Lead) TransitionTo(status Status, note string) (*Activity, error) {
	if !status.IsValid() {
		return nil, shared.NewValidationError("status", "invalid lead status")
	}
	if l.Status == status {
		return nil, nil
	}

	activity := NewActivity(l.ID, l.Status, status, note)
	l.Status = status
	l.IsUnread = true
	l.Activities = append(l.Activities, *activity)
	l.UpdatedAt = time.Now()

	return activity, nil
}

// Touch marks the lead unread and appends an activity without changing status
func (l *Lead) Touch(note string) *Activity {
	activity := NewActivity(l.ID, l.Status, l.Status, note)
	l.IsUnread = true
	l.Activities = append(l.Activities, *activity)
	l.UpdatedAt = time.Now()
	return activity
}

// MarkRead clears the unread flag
func (l *Lead) MarkRead() {
	l.IsUnread = false
	l.UpdatedAt = time.Now()
}

// Activity is one append-only entry in a lead's history
type Activity struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	OldStatus Status
	NewStatus Status
	Note      string
	CreatedAt time.Time
}

// TableName maps the activity to its table
func (Activity) TableName() string {
	return "lead_activities"
}

// NewActivity creates an activity entry
func NewActivity(leadID uuid.UUID, oldStatus, newStatus Status, note string) *Activity {
	return &Activity{
		ID:        uuid.New(),
		LeadID:    leadID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Note:      note,
		CreatedAt: time.Now(),
	}
}
