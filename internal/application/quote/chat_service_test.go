package quote

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/chat"
	"github.com/quotedesk/backend/internal/domain/shared"
)

func newTestChatService() (*ChatService, *MockChatRepository, *MockQuoteRepository, *MockNotifier, *MockRealtimePublisher) {
	chatRepo := new(MockChatRepository)
	quoteRepo := new(MockQuoteRepository)
	notifier := new(MockNotifier)
	realtime := new(MockRealtimePublisher)

	svc := NewChatService(chatRepo, quoteRepo, notifier, realtime, zap.NewNop())
	return svc, chatRepo, quoteRepo, notifier, realtime
}

func TestChatService_PostMessage(t *testing.T) {
	t.Run("persists message with sender receipt and notifies the other party", func(t *testing.T) {
		svc, chatRepo, quoteRepo, notifier, realtime := newTestChatService()
		q := draftQuote(t)

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		chatRepo.On("SaveMessage", mock.Anything, mock.MatchedBy(func(m *chat.Message) bool {
			return len(m.Receipts) == 1 && m.Receipts[0].UserEmail == "ann@builderco.test"
		})).Return(nil)
		realtime.On("Publish", QuoteRoom(q.ID.String()), mock.Anything).Return()
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n Notification) bool {
			return n.Recipient.Email == testCustomer.Email && n.Category == NotificationCategoryQuoteUpdates
		})).Return(nil)

		resp, err := svc.PostMessage(context.Background(), q.ID, testAgent, PostMessageRequest{Body: "hello"})
		require.NoError(t, err)

		assert.Equal(t, "hello", resp.Body)
		require.Len(t, resp.Receipts, 1)
		assert.Equal(t, "ann@builderco.test", resp.Receipts[0].UserEmail)
		notifier.AssertExpectations(t)
		realtime.AssertExpectations(t)
	})

	t.Run("notification failure does not fail the post", func(t *testing.T) {
		svc, chatRepo, quoteRepo, notifier, realtime := newTestChatService()
		q := draftQuote(t)

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		chatRepo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil)
		realtime.On("Publish", mock.Anything, mock.Anything).Return()
		notifier.On("Notify", mock.Anything, mock.Anything).Return(assert.AnError)

		_, err := svc.PostMessage(context.Background(), q.ID, testCustomer, PostMessageRequest{Body: "question"})
		assert.NoError(t, err)
	})

	t.Run("rejects non-participants", func(t *testing.T) {
		svc, chatRepo, quoteRepo, _, _ := newTestChatService()
		q := draftQuote(t)

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)

		_, err := svc.PostMessage(context.Background(), q.ID, testStranger, PostMessageRequest{Body: "hi"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
		chatRepo.AssertNotCalled(t, "SaveMessage", mock.Anything, mock.Anything)
	})
}

func TestChatService_MarkRead(t *testing.T) {
	t.Run("creates a receipt on first read", func(t *testing.T) {
		svc, chatRepo, quoteRepo, _, _ := newTestChatService()
		q := draftQuote(t)

		m, err := chat.NewMessage(q.ID, testAgent, "hello")
		require.NoError(t, err)

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		chatRepo.On("FindMessageByID", mock.Anything, m.ID).Return(m, nil)
		chatRepo.On("FindReceipt", mock.Anything, m.ID, testCustomer.Email).Return(nil, nil)
		chatRepo.On("SaveReceipt", mock.Anything, mock.MatchedBy(func(r *chat.Receipt) bool {
			return r.MessageID == m.ID && r.UserEmail == "jane@example.test"
		})).Return(nil)

		resp, err := svc.MarkRead(context.Background(), q.ID, m.ID, testCustomer)
		require.NoError(t, err)

		assert.Equal(t, "jane@example.test", resp.UserEmail)
		chatRepo.AssertExpectations(t)
	})

	t.Run("second read leaves the original read_at unchanged", func(t *testing.T) {
		svc, chatRepo, quoteRepo, _, _ := newTestChatService()
		q := draftQuote(t)

		m, err := chat.NewMessage(q.ID, testAgent, "hello")
		require.NoError(t, err)

		firstReadAt := time.Now().Add(-time.Hour)
		existing := &chat.Receipt{
			ID:        uuid.New(),
			MessageID: m.ID,
			UserEmail: "jane@example.test",
			ReadAt:    firstReadAt,
		}

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		chatRepo.On("FindMessageByID", mock.Anything, m.ID).Return(m, nil)
		chatRepo.On("FindReceipt", mock.Anything, m.ID, testCustomer.Email).Return(existing, nil)

		resp, err := svc.MarkRead(context.Background(), q.ID, m.ID, testCustomer)
		require.NoError(t, err)

		assert.True(t, resp.ReadAt.Equal(firstReadAt))
		chatRepo.AssertNotCalled(t, "SaveReceipt", mock.Anything, mock.Anything)
	})

	t.Run("rejects a message from a different quote", func(t *testing.T) {
		svc, chatRepo, quoteRepo, _, _ := newTestChatService()
		q := draftQuote(t)

		m, err := chat.NewMessage(uuid.New(), testAgent, "hello")
		require.NoError(t, err)

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		chatRepo.On("FindMessageByID", mock.Anything, m.ID).Return(m, nil)

		_, err = svc.MarkRead(context.Background(), q.ID, m.ID, testCustomer)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestChatService_ListMessages(t *testing.T) {
	svc, chatRepo, quoteRepo, _, _ := newTestChatService()
	q := draftQuote(t)

	m, err := chat.NewMessage(q.ID, testAgent, "hello")
	require.NoError(t, err)

	quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
	chatRepo.On("FindMessagesByQuote", mock.Anything, q.ID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderDir == "asc"
	})).Return([]chat.Message{*m}, nil)
	chatRepo.On("CountMessagesByQuote", mock.Anything, q.ID).Return(int64(1), nil)

	page, err := svc.ListMessages(context.Background(), q.ID, testCustomer, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "hello", page.Items[0].Body)
}

func TestChatService_UnreadCount(t *testing.T) {
	t.Run("returns the unread total for a participant", func(t *testing.T) {
		svc, chatRepo, quoteRepo, _, _ := newTestChatService()
		q := draftQuote(t)

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		chatRepo.On("CountUnread", mock.Anything, q.ID, testCustomer.Email).Return(int64(3), nil)

		resp, err := svc.UnreadCount(context.Background(), q.ID, testCustomer)
		require.NoError(t, err)

		assert.Equal(t, int64(3), resp.Unread)
	})

	t.Run("rejects non-participants", func(t *testing.T) {
		svc, _, quoteRepo, _, _ := newTestChatService()
		q := draftQuote(t)

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)

		_, err := svc.UnreadCount(context.Background(), q.ID, testStranger)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
