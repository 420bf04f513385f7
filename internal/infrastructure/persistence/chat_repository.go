package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotedesk/backend/internal/domain/chat"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// GormChatRepository implements chat.Repository using GORM
type GormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GormChatRepository
func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

// SaveMessage persists a message together with any receipts attached to it
func (r *GormChatRepository) SaveMessage(ctx context.Context, m *chat.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		for i := range m.Receipts {
			m.Receipts[i].MessageID = m.ID
			if err := tx.Save(&m.Receipts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindMessageByID finds a message with its receipts
func (r *GormChatRepository) FindMessageByID(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	var m chat.Message
	if err := r.db.WithContext(ctx).
		Preload("Receipts").
		First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindMessagesByQuote returns a quote's messages, oldest first
func (r *GormChatRepository) FindMessagesByQuote(ctx context.Context, quoteID uuid.UUID, filter shared.Filter) ([]chat.Message, error) {
	var messages []chat.Message
	query := r.db.WithContext(ctx).
		Preload("Receipts").
		Where("quote_id = ?", quoteID).
		Order("created_at ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CountMessagesByQuote counts a quote's messages
func (r *GormChatRepository) CountMessagesByQuote(ctx context.Context, quoteID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("quote_id = ?", quoteID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveReceipt persists a read receipt
func (r *GormChatRepository) SaveReceipt(ctx context.Context, receipt *chat.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// FindReceipt finds the receipt for a (message, user) pair, or nil
func (r *GormChatRepository) FindReceipt(ctx context.Context, messageID uuid.UUID, userEmail string) (*chat.Receipt, error) {
	var receipt chat.Receipt
	if err := r.db.WithContext(ctx).
		Where("message_id = ? AND user_email = ?", messageID, strings.ToLower(userEmail)).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// CountUnread counts the quote's messages the given user has no receipt for
func (r *GormChatRepository) CountUnread(ctx context.Context, quoteID uuid.UUID, userEmail string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("quote_id = ?", quoteID).
		Where("NOT EXISTS (SELECT 1 FROM quote_message_receipts r WHERE r.message_id = quote_chat_messages.id AND r.user_email = ?)",
			strings.ToLower(userEmail)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormChatRepository implements chat.Repository
var _ chat.Repository = (*GormChatRepository)(nil)
