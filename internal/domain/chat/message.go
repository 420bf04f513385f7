package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// MaxBodyLength caps a single chat message body
const MaxBodyLength = 4000

// Message is one chat message inside a quote's conversation. Messages are
// immutable once posted; read state lives in receipts, not on the message.
type Message struct {
	ID          uuid.UUID
	QuoteID     uuid.UUID
	SenderName  string
	SenderEmail string
	Body        string
	CreatedAt   time.Time
	Receipts    []Receipt `gorm:"foreignKey:MessageID"`
}

// TableName maps the message to its table
func (Message) TableName() string {
	return "quote_chat_messages"
}

// NewMessage creates a chat message from the given sender
func NewMessage(quoteID uuid.UUID, sender shared.Actor, body string) (*Message, error) {
	if quoteID == uuid.Nil {
		return nil, shared.NewValidationError("quote_id", "quote ID cannot be empty")
	}
	if sender.Email == "" {
		return nil, shared.NewValidationError("sender", "sender email cannot be empty")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewValidationError("body", "message body cannot be empty")
	}
	if len(body) > MaxBodyLength {
		return nil, shared.NewValidationError("body", "message body is too long")
	}

	return &Message{
		ID:          uuid.New(),
		QuoteID:     quoteID,
		SenderName:  sender.Name,
		SenderEmail: sender.Email,
		Body:        body,
		CreatedAt:   time.Now(),
	}, nil
}

// IsFrom reports whether the message was sent by the given email
// (exact, case-insensitive)
func (m *Message) IsFrom(email string) bool {
	return strings.EqualFold(m.SenderEmail, email)
}

// Receipt marks a message as read by one user. At most one receipt exists
// per (message, user email); creating it is idempotent at the service level
// and the first read_at always wins.
type Receipt struct {
	ID        uuid.UUID
	MessageID uuid.UUID
	UserEmail string
	ReadAt    time.Time
}

// TableName maps the receipt to its table
func (Receipt) TableName() string {
	return "quote_message_receipts"
}

// NewReceipt creates a read receipt stamped with the current time
func NewReceipt(messageID uuid.UUID, userEmail string) (*Receipt, error) {
	if messageID == uuid.Nil {
		return nil, shared.NewValidationError("message_id", "message ID cannot be empty")
	}
	if userEmail == "" {
		return nil, shared.NewValidationError("user_email", "user email cannot be empty")
	}

	return &Receipt{
		ID:        uuid.New(),
		MessageID: messageID,
		UserEmail: strings.ToLower(userEmail),
		ReadAt:    time.Now(),
	}, nil
}
