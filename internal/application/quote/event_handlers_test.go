package quote

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/lead"
	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
)

func newLead(status lead.Status) *lead.Lead {
	return &lead.Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SourceType:        string(quote.OriginBuildRequest),
		Status:            status,
	}
}

func TestLeadSyncHandler(t *testing.T) {
	t.Run("sent moves a new lead to quoted and republishes", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		realtime := new(MockRealtimePublisher)
		handler := NewLeadSyncHandler(leadRepo, realtime, zap.NewNop())

		q := sentQuote(t)
		l := newLead(lead.StatusNew)
		l.SourceID = q.SourceID

		leadRepo.On("FindBySource", mock.Anything, string(quote.OriginBuildRequest), q.SourceID).Return(l, nil)
		leadRepo.On("Save", mock.Anything, l).Return(nil)
		realtime.On("Publish", LeadsRoom, mock.Anything).Return()

		err := handler.Handle(context.Background(), quote.NewQuoteSentEvent(q, testAgent))
		require.NoError(t, err)

		assert.Equal(t, lead.StatusQuoted, l.Status)
		assert.True(t, l.IsUnread)
		require.Len(t, l.Activities, 1)
		assert.Equal(t, lead.StatusNew, l.Activities[0].OldStatus)
		realtime.AssertExpectations(t)
	})

	t.Run("accepted closes the lead", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		realtime := new(MockRealtimePublisher)
		handler := NewLeadSyncHandler(leadRepo, realtime, zap.NewNop())

		q := sentQuote(t)
		require.NoError(t, q.Accept(testCustomer, testCustomer.Name, testCustomer.Email))
		l := newLead(lead.StatusQuoted)

		leadRepo.On("FindBySource", mock.Anything, mock.Anything, mock.Anything).Return(l, nil)
		leadRepo.On("Save", mock.Anything, l).Return(nil)
		realtime.On("Publish", LeadsRoom, mock.Anything).Return()

		err := handler.Handle(context.Background(), quote.NewQuoteAcceptedEvent(q, testCustomer))
		require.NoError(t, err)

		assert.Equal(t, lead.StatusClosed, l.Status)
	})

	t.Run("declined appends activity without changing status", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		realtime := new(MockRealtimePublisher)
		handler := NewLeadSyncHandler(leadRepo, realtime, zap.NewNop())

		q := sentQuote(t)
		require.NoError(t, q.Decline(testCustomer, "over budget"))
		l := newLead(lead.StatusQuoted)

		leadRepo.On("FindBySource", mock.Anything, mock.Anything, mock.Anything).Return(l, nil)
		leadRepo.On("Save", mock.Anything, l).Return(nil)
		realtime.On("Publish", LeadsRoom, mock.Anything).Return()

		err := handler.Handle(context.Background(), quote.NewQuoteDeclinedEvent(q, testCustomer))
		require.NoError(t, err)

		assert.Equal(t, lead.StatusQuoted, l.Status)
		assert.True(t, l.IsUnread)
		require.Len(t, l.Activities, 1)
	})

	t.Run("missing lead is a no-op", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		realtime := new(MockRealtimePublisher)
		handler := NewLeadSyncHandler(leadRepo, realtime, zap.NewNop())

		q := sentQuote(t)
		leadRepo.On("FindBySource", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

		err := handler.Handle(context.Background(), quote.NewQuoteSentEvent(q, testAgent))
		require.NoError(t, err)

		leadRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		realtime.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure is swallowed", func(t *testing.T) {
		leadRepo := new(MockLeadRepository)
		handler := NewLeadSyncHandler(leadRepo, nil, zap.NewNop())

		q := sentQuote(t)
		leadRepo.On("FindBySource", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

		err := handler.Handle(context.Background(), quote.NewQuoteSentEvent(q, testAgent))
		assert.NoError(t, err)
	})
}

func TestNotificationHandler(t *testing.T) {
	t.Run("sent notifies the recipient", func(t *testing.T) {
		quoteRepo := new(MockQuoteRepository)
		notifier := new(MockNotifier)
		handler := NewNotificationHandler(quoteRepo, notifier, zap.NewNop())

		q := sentQuote(t)
		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n Notification) bool {
			return n.Recipient.Email == testCustomer.Email &&
				strings.Contains(n.Body, "120000.00 USD")
		})).Return(nil)

		err := handler.Handle(context.Background(), quote.NewQuoteSentEvent(q, testAgent))
		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("accepted notifies the preparer", func(t *testing.T) {
		quoteRepo := new(MockQuoteRepository)
		notifier := new(MockNotifier)
		handler := NewNotificationHandler(quoteRepo, notifier, zap.NewNop())

		q := sentQuote(t)
		require.NoError(t, q.Accept(testCustomer, testCustomer.Name, testCustomer.Email))

		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n Notification) bool {
			return n.Recipient.Email == testAgent.Email
		})).Return(nil)

		err := handler.Handle(context.Background(), quote.NewQuoteAcceptedEvent(q, testCustomer))
		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("dispatch failure is swallowed", func(t *testing.T) {
		quoteRepo := new(MockQuoteRepository)
		notifier := new(MockNotifier)
		handler := NewNotificationHandler(quoteRepo, notifier, zap.NewNop())

		q := sentQuote(t)
		quoteRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(assert.AnError)

		err := handler.Handle(context.Background(), quote.NewQuoteSentEvent(q, testAgent))
		assert.NoError(t, err)
	})
}
