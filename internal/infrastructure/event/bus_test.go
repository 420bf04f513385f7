package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
	panics   bool
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, event)
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func newEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "test", uuid.New())
	return &e
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("routes events to matching handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		sent := &recordingHandler{types: []string{"quote.sent"}}
		accepted := &recordingHandler{types: []string{"quote.accepted"}}
		bus.Subscribe(sent)
		bus.Subscribe(accepted)

		require.NoError(t, bus.Publish(context.Background(), newEvent("quote.sent")))

		assert.Len(t, sent.received, 1)
		assert.Empty(t, accepted.received)
	})

	t.Run("wildcard handlers receive everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := &recordingHandler{}
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(context.Background(), newEvent("quote.sent"), newEvent("lead.changed")))

		assert.Len(t, all.received, 2)
	})

	t.Run("a failing handler does not stop the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"quote.sent"}, fail: true}
		healthy := &recordingHandler{types: []string{"quote.sent"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newEvent("quote.sent")))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("a panicking handler is isolated", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"quote.sent"}, panics: true}
		healthy := &recordingHandler{types: []string{"quote.sent"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newEvent("quote.sent")))

		assert.Len(t, healthy.received, 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"quote.sent"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newEvent("quote.sent")))

	assert.Empty(t, handler.received)
}
