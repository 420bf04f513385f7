package quote

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// ChangeAction classifies a change log entry
type ChangeAction string

const (
	ChangeActionCreate  ChangeAction = "create"
	ChangeActionUpdate  ChangeAction = "update"
	ChangeActionSubmit  ChangeAction = "submit"  // quote sent to the recipient
	ChangeActionApprove ChangeAction = "approve" // quote accepted
	ChangeActionReject  ChangeAction = "reject"  // quote declined
	ChangeActionRevise  ChangeAction = "revise"  // new revision created
)

// IsValid checks if the action is a valid ChangeAction
func (a ChangeAction) IsValid() bool {
	switch a {
	case ChangeActionCreate, ChangeActionUpdate, ChangeActionSubmit,
		ChangeActionApprove, ChangeActionReject, ChangeActionRevise:
		return true
	}
	return false
}

// String returns the string representation of ChangeAction
func (a ChangeAction) String() string {
	return string(a)
}

// FieldChange records one field-level diff inside a change log entry
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// FieldChanges is the JSON-stored list of diffs for one entry
type FieldChanges []FieldChange

// Value implements driver.Valuer, storing the diffs as JSON
func (c FieldChanges) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (c *FieldChanges) Scan(value any) error {
	if value == nil {
		*c = FieldChanges{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FieldChanges", value)
	}
	if len(data) == 0 {
		*c = FieldChanges{}
		return nil
	}
	return json.Unmarshal(data, c)
}

// ChangeLogEntry is one append-only audit record for a quote. Entries are
// never updated or deleted; the log survives the quote's own immutability
// because terminal quotes still accumulate chat and view activity elsewhere.
type ChangeLogEntry struct {
	ID         uuid.UUID
	QuoteID    uuid.UUID
	Action     ChangeAction
	ActorName  string
	ActorEmail string
	Changes    FieldChanges `gorm:"type:jsonb"`
	Note       string
	CreatedAt  time.Time
}

// TableName maps the entry to its table
func (ChangeLogEntry) TableName() string {
	return "quote_change_logs"
}

// NewChangeLogEntry creates an audit record for the given quote and action
func NewChangeLogEntry(quoteID uuid.UUID, action ChangeAction, actor shared.Actor, changes FieldChanges, note string) (*ChangeLogEntry, error) {
	if quoteID == uuid.Nil {
		return nil, shared.NewValidationError("quote_id", "quote ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewValidationError("action", fmt.Sprintf("%q is not a valid change action", action))
	}
	if actor.Email == "" {
		return nil, shared.NewValidationError("actor", "actor email cannot be empty")
	}
	if changes == nil {
		changes = FieldChanges{}
	}

	return &ChangeLogEntry{
		ID:         uuid.New(),
		QuoteID:    quoteID,
		Action:     action,
		ActorName:  actor.Name,
		ActorEmail: actor.Email,
		Changes:    changes,
		Note:       note,
		CreatedAt:  time.Now(),
	}, nil
}

// StatusChange builds the single-field diff used by every lifecycle transition
func StatusChange(from, to Status) FieldChanges {
	return FieldChanges{{Field: "status", OldValue: from.String(), NewValue: to.String()}}
}
