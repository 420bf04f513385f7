package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// Repository defines the interface for chat persistence
type Repository interface {
	// SaveMessage persists a message together with any receipts attached to it
	SaveMessage(ctx context.Context, m *Message) error

	// FindMessageByID finds a message with its receipts
	FindMessageByID(ctx context.Context, id uuid.UUID) (*Message, error)

	// FindMessagesByQuote returns a quote's messages, oldest first
	FindMessagesByQuote(ctx context.Context, quoteID uuid.UUID, filter shared.Filter) ([]Message, error)

	// CountMessagesByQuote counts a quote's messages
	CountMessagesByQuote(ctx context.Context, quoteID uuid.UUID) (int64, error)

	// SaveReceipt persists a read receipt
	SaveReceipt(ctx context.Context, r *Receipt) error

	// FindReceipt finds the receipt for a (message, user) pair, or nil
	FindReceipt(ctx context.Context, messageID uuid.UUID, userEmail string) (*Receipt, error)

	// CountUnread counts the quote's messages the given user has no receipt for
	CountUnread(ctx context.Context, quoteID uuid.UUID, userEmail string) (int64, error)
}
