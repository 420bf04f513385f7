package quote

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/quotedesk/backend/internal/domain/chat"
	"github.com/quotedesk/backend/internal/domain/lead"
	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// MockQuoteRepository is a mock implementation of quote.Repository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByReference(ctx context.Context, reference string) (*quote.Quote, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindBySource(ctx context.Context, originType quote.OriginType, sourceID uuid.UUID) ([]quote.Quote, error) {
	args := m.Called(ctx, originType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindRevisions(ctx context.Context, parentID uuid.UUID) ([]quote.Quote, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByStatus(ctx context.Context, status quote.Status, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) SaveWithLock(ctx context.Context, q *quote.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) GenerateReference(ctx context.Context, originType quote.OriginType) (string, error) {
	args := m.Called(ctx, originType)
	return args.String(0), args.Error(1)
}

// MockChangeLogRepository is a mock implementation of quote.ChangeLogRepository
type MockChangeLogRepository struct {
	mock.Mock
}

func (m *MockChangeLogRepository) Append(ctx context.Context, entry *quote.ChangeLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockChangeLogRepository) FindByQuote(ctx context.Context, quoteID uuid.UUID, filter shared.Filter) ([]quote.ChangeLogEntry, error) {
	args := m.Called(ctx, quoteID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.ChangeLogEntry), args.Error(1)
}

func (m *MockChangeLogRepository) CountByQuote(ctx context.Context, quoteID uuid.UUID) (int64, error) {
	args := m.Called(ctx, quoteID)
	return args.Get(0).(int64), args.Error(1)
}

// MockChatRepository is a mock implementation of chat.Repository
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) SaveMessage(ctx context.Context, msg *chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) FindMessageByID(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Message), args.Error(1)
}

func (m *MockChatRepository) FindMessagesByQuote(ctx context.Context, quoteID uuid.UUID, filter shared.Filter) ([]chat.Message, error) {
	args := m.Called(ctx, quoteID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chat.Message), args.Error(1)
}

func (m *MockChatRepository) CountMessagesByQuote(ctx context.Context, quoteID uuid.UUID) (int64, error) {
	args := m.Called(ctx, quoteID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) SaveReceipt(ctx context.Context, r *chat.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockChatRepository) FindReceipt(ctx context.Context, messageID uuid.UUID, userEmail string) (*chat.Receipt, error) {
	args := m.Called(ctx, messageID, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Receipt), args.Error(1)
}

func (m *MockChatRepository) CountUnread(ctx context.Context, quoteID uuid.UUID, userEmail string) (int64, error) {
	args := m.Called(ctx, quoteID, userEmail)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeadRepository is a mock implementation of lead.Repository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) (*lead.Lead, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, l *lead.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockRealtimePublisher is a mock implementation of RealtimePublisher
type MockRealtimePublisher struct {
	mock.Mock
}

func (m *MockRealtimePublisher) Publish(room string, payload any) {
	m.Called(room, payload)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
