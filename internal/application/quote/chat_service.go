package quote

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/chat"
	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// ChatService handles the per-quote chat channel. Access is restricted to
// the quote's two participants; everything after the message is persisted
// (room fan-out, notification, event publish) is best-effort.
type ChatService struct {
	chatRepo       chat.Repository
	quoteRepo      quote.Repository
	eventPublisher shared.EventPublisher
	notifier       Notifier
	realtime       RealtimePublisher
	logger         *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(chatRepo chat.Repository, quoteRepo quote.Repository, notifier Notifier, realtime RealtimePublisher, logger *zap.Logger) *ChatService {
	return &ChatService{
		chatRepo:  chatRepo,
		quoteRepo: quoteRepo,
		notifier:  notifier,
		realtime:  realtime,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *ChatService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PostMessage posts a chat message from one of the quote's participants.
// The sender's own read receipt is created at post time; the other
// participant is notified and the room is published to best-effort.
func (s *ChatService) PostMessage(ctx context.Context, quoteID uuid.UUID, sender shared.Actor, req PostMessageRequest) (*MessageResponse, error) {
	q, err := s.participantQuote(ctx, quoteID, sender.Email)
	if err != nil {
		return nil, err
	}

	m, err := chat.NewMessage(quoteID, sender, req.Body)
	if err != nil {
		return nil, err
	}

	receipt, err := chat.NewReceipt(m.ID, sender.Email)
	if err != nil {
		return nil, err
	}
	m.Receipts = append(m.Receipts, *receipt)

	if err := s.chatRepo.SaveMessage(ctx, m); err != nil {
		return nil, err
	}

	response := ToMessageResponse(m)

	if s.realtime != nil {
		s.realtime.Publish(QuoteRoom(quoteID.String()), response)
	}

	if other, ok := q.OtherParticipant(sender.Email); ok && s.notifier != nil {
		if err := s.notifier.Notify(ctx, Notification{
			Recipient: other,
			Category:  NotificationCategoryQuoteUpdates,
			Subject:   "New message on quote " + q.Reference,
			Body:      m.Body,
		}); err != nil {
			s.logger.Warn("failed to dispatch chat notification",
				zap.String("quote_id", quoteID.String()),
				zap.String("recipient", other.Email),
				zap.Error(err),
			)
		}
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, chat.NewMessagePostedEvent(m)); err != nil {
			s.logger.Warn("failed to publish message posted event",
				zap.String("quote_id", quoteID.String()),
				zap.Error(err),
			)
		}
	}

	return &response, nil
}

// MarkRead creates a read receipt for a (message, user) pair. The call is
// idempotent: a second read leaves the original read_at untouched.
func (s *ChatService) MarkRead(ctx context.Context, quoteID, messageID uuid.UUID, user shared.Actor) (*ReceiptResponse, error) {
	if _, err := s.participantQuote(ctx, quoteID, user.Email); err != nil {
		return nil, err
	}

	m, err := s.chatRepo.FindMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.QuoteID != quoteID {
		return nil, shared.ErrNotFound
	}

	existing, err := s.chatRepo.FindReceipt(ctx, messageID, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ReceiptResponse{UserEmail: existing.UserEmail, ReadAt: existing.ReadAt}, nil
	}

	receipt, err := chat.NewReceipt(messageID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.SaveReceipt(ctx, receipt); err != nil {
		return nil, err
	}

	return &ReceiptResponse{UserEmail: receipt.UserEmail, ReadAt: receipt.ReadAt}, nil
}

// ListMessages returns a quote's messages, oldest first, for a participant
func (s *ChatService) ListMessages(ctx context.Context, quoteID uuid.UUID, user shared.Actor, page, pageSize int) (*shared.Paginated[MessageResponse], error) {
	if _, err := s.participantQuote(ctx, quoteID, user.Email); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = "created_at"
	filter.OrderDir = "asc"
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	messages, err := s.chatRepo.FindMessagesByQuote(ctx, quoteID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.chatRepo.CountMessagesByQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToMessageResponses(messages), total, filter.Page, filter.PageSize)
	return &result, nil
}

// UnreadCount returns how many of the quote's messages the user has not read
func (s *ChatService) UnreadCount(ctx context.Context, quoteID uuid.UUID, user shared.Actor) (*UnreadCountResponse, error) {
	if _, err := s.participantQuote(ctx, quoteID, user.Email); err != nil {
		return nil, err
	}

	unread, err := s.chatRepo.CountUnread(ctx, quoteID, user.Email)
	if err != nil {
		return nil, err
	}

	return &UnreadCountResponse{QuoteID: quoteID, Unread: unread}, nil
}

// participantQuote loads the quote and rejects callers outside its
// participant pair
func (s *ChatService) participantQuote(ctx context.Context, quoteID uuid.UUID, email string) (*quote.Quote, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !q.IsParticipant(email) {
		return nil, shared.ErrForbidden
	}
	return q, nil
}
