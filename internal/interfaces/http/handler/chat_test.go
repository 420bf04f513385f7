package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appquote "github.com/quotedesk/backend/internal/application/quote"
	"github.com/quotedesk/backend/internal/domain/chat"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/interfaces/http/middleware"
)

// MockChatRepository implements chat.Repository for testing
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

var _ chat.Repository = (*MockChatRepository)(nil)

func setupChatTestRouter() (*gin.Engine, *MockChatRepository, *MockQuoteRepository, *ChatHandler) {
	gin.SetMode(gin.TestMode)

	mockChatRepo := new(MockChatRepository)
	mockQuoteRepo := new(MockQuoteRepository)
	service := appquote.NewChatService(mockChatRepo, mockQuoteRepo, nil, nil, zap.NewNop())
	h := NewChatHandler(service)

	router := gin.New()
	router.Use(middleware.Actor())

	return router, mockChatRepo, mockQuoteRepo, h
}

func TestChatHandler_PostMessage(t *testing.T) {
	t.Run("posts a message as a participant", func(t *testing.T) {
		router, mockChatRepo, mockQuoteRepo, h := setupChatTestRouter()
		router.POST("/quotes/:id/messages", h.PostMessage)

		q := newTestQuote(t)
		mockQuoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		mockChatRepo.On("SaveMessage", mock.Anything, mock.AnythingOfType("*chat.Message")).
			Return(nil)

		body, _ := json.Marshal(appquote.PostMessageRequest{Body: "Can we swap the flooring?"})
		req, _ := http.NewRequest(http.MethodPost, "/quotes/"+q.ID.String()+"/messages", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		withActor(req, "Sam Ortiz", testCustomerEmail)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Can we swap the flooring?", data["body"])
		// the sender's own receipt is created at post time
		assert.Len(t, data["receipts"], 1)

		mockChatRepo.AssertExpectations(t)
	})

	t.Run("returns 403 for a non-participant", func(t *testing.T) {
		router, mockChatRepo, mockQuoteRepo, h := setupChatTestRouter()
		router.POST("/quotes/:id/messages", h.PostMessage)

		q := newTestQuote(t)
		mockQuoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)

		body, _ := json.Marshal(appquote.PostMessageRequest{Body: "hi"})
		req, _ := http.NewRequest(http.MethodPost, "/quotes/"+q.ID.String()+"/messages", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		withActor(req, "Eve", "eve@elsewhere.example")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockChatRepo.AssertNotCalled(t, "SaveMessage", mock.Anything, mock.Anything)
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		router, _, _, h := setupChatTestRouter()
		router.POST("/quotes/:id/messages", h.PostMessage)

		req, _ := http.NewRequest(http.MethodPost, "/quotes/"+uuid.NewString()+"/messages", bytes.NewBufferString(`{"body":""}`))
		req.Header.Set("Content-Type", "application/json")
		withActor(req, "Sam Ortiz", testCustomerEmail)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChatHandler_MarkRead(t *testing.T) {
	t.Run("creates a receipt on first read", func(t *testing.T) {
		router, mockChatRepo, mockQuoteRepo, h := setupChatTestRouter()
		router.POST("/quotes/:id/messages/:messageID/read", h.MarkRead)

		q := newTestQuote(t)
		msg, err := chat.NewMessage(q.ID, shared.NewActor("Dana Reyes", testAgentEmail), "quote is ready")
		require.NoError(t, err)

		mockQuoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		mockChatRepo.On("FindMessageByID", mock.Anything, msg.ID).Return(msg, nil)
		mockChatRepo.On("FindReceipt", mock.Anything, msg.ID, testCustomerEmail).
			Return(nil, nil)
		mockChatRepo.On("SaveReceipt", mock.Anything, mock.AnythingOfType("*chat.Receipt")).
			Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/quotes/"+q.ID.String()+"/messages/"+msg.ID.String()+"/read", nil)
		withActor(req, "Sam Ortiz", testCustomerEmail)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockChatRepo.AssertExpectations(t)
	})

	t.Run("second read returns the original receipt", func(t *testing.T) {
		router, mockChatRepo, mockQuoteRepo, h := setupChatTestRouter()
		router.POST("/quotes/:id/messages/:messageID/read", h.MarkRead)

		q := newTestQuote(t)
		msg, err := chat.NewMessage(q.ID, shared.NewActor("Dana Reyes", testAgentEmail), "quote is ready")
		require.NoError(t, err)
		firstRead := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		existing := &chat.Receipt{MessageID: msg.ID, UserEmail: testCustomerEmail, ReadAt: firstRead}

		mockQuoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		mockChatRepo.On("FindMessageByID", mock.Anything, msg.ID).Return(msg, nil)
		mockChatRepo.On("FindReceipt", mock.Anything, msg.ID, testCustomerEmail).
			Return(existing, nil)

		req, _ := http.NewRequest(http.MethodPost, "/quotes/"+q.ID.String()+"/messages/"+msg.ID.String()+"/read", nil)
		withActor(req, "Sam Ortiz", testCustomerEmail)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, firstRead.Format(time.RFC3339), data["read_at"])

		mockChatRepo.AssertNotCalled(t, "SaveReceipt", mock.Anything, mock.Anything)
	})

	t.Run("returns 404 for a message from another quote", func(t *testing.T) {
		router, mockChatRepo, mockQuoteRepo, h := setupChatTestRouter()
		router.POST("/quotes/:id/messages/:messageID/read", h.MarkRead)

		q := newTestQuote(t)
		msg, err := chat.NewMessage(uuid.New(), shared.NewActor("Dana Reyes", testAgentEmail), "wrong room")
		require.NoError(t, err)

		mockQuoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		mockChatRepo.On("FindMessageByID", mock.Anything, msg.ID).Return(msg, nil)

		req, _ := http.NewRequest(http.MethodPost, "/quotes/"+q.ID.String()+"/messages/"+msg.ID.String()+"/read", nil)
		withActor(req, "Sam Ortiz", testCustomerEmail)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestChatHandler_ListMessages(t *testing.T) {
	t.Run("lists messages oldest first", func(t *testing.T) {
		router, mockChatRepo, mockQuoteRepo, h := setupChatTestRouter()
		router.GET("/quotes/:id/messages", h.ListMessages)

		q := newTestQuote(t)
		first, err := chat.NewMessage(q.ID, shared.NewActor("Dana Reyes", testAgentEmail), "quote is ready")
		require.NoError(t, err)
		second, err := chat.NewMessage(q.ID, shared.NewActor("Sam Ortiz", testCustomerEmail), "taking a look now")
		require.NoError(t, err)

		mockQuoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		mockChatRepo.On("FindMessagesByQuote", mock.Anything, q.ID, mock.AnythingOfType("shared.Filter")).
			Return([]chat.Message{*first, *second}, nil)
		mockChatRepo.On("CountMessagesByQuote", mock.Anything, q.ID).Return(int64(2), nil)

		req, _ := http.NewRequest(http.MethodGet, "/quotes/"+q.ID.String()+"/messages", nil)
		withActor(req, "Sam Ortiz", testCustomerEmail)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].([]interface{})
		require.Len(t, data, 2)
		assert.Equal(t, "quote is ready", data[0].(map[string]interface{})["body"])
		meta := response["meta"].(map[string]interface{})
		assert.Equal(t, float64(2), meta["total"])
	})
}

func TestChatHandler_UnreadCount(t *testing.T) {
	t.Run("returns the unread count", func(t *testing.T) {
		router, mockChatRepo, mockQuoteRepo, h := setupChatTestRouter()
		router.GET("/quotes/:id/messages/unread-count", h.UnreadCount)

		q := newTestQuote(t)
		mockQuoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		mockChatRepo.On("CountUnread", mock.Anything, q.ID, testCustomerEmail).
			Return(int64(3), nil)

		req, _ := http.NewRequest(http.MethodGet, "/quotes/"+q.ID.String()+"/messages/unread-count", nil)
		withActor(req, "Sam Ortiz", testCustomerEmail)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(3), data["unread"])
	})
}
