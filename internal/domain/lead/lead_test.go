package lead

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend/internal/domain/shared"
)

func testLead(status Status) *Lead {
	return &Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SourceType:        "build_request",
		SourceID:          uuid.New(),
		Status:            status,
	}
}

func TestLead_TransitionTo(t *testing.T) {
	t.Run("moves status and marks unread", func(t *testing.T) {
		l := testLead(StatusNew)

		activity, err := l.TransitionTo(StatusQuoted, "quote sent")
		require.NoError(t, err)
		require.NotNil(t, activity)

		assert.Equal(t, StatusQuoted, l.Status)
		assert.True(t, l.IsUnread)
		assert.Equal(t, StatusNew, activity.OldStatus)
		assert.Equal(t, StatusQuoted, activity.NewStatus)
		assert.Len(t, l.Activities, 1)
	})

	t.Run("no-op when already at target status", func(t *testing.T) {
		l := testLead(StatusQuoted)

		activity, err := l.TransitionTo(StatusQuoted, "quote sent")
		require.NoError(t, err)

		assert.Nil(t, activity)
		assert.False(t, l.IsUnread)
		assert.Empty(t, l.Activities)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		l := testLead(StatusNew)

		_, err := l.TransitionTo(Status("archived"), "")
		assert.Error(t, err)
	})
}

func TestLead_Touch(t *testing.T) {
	l := testLead(StatusQuoted)

	activity := l.Touch("quote declined")

	assert.Equal(t, StatusQuoted, l.Status)
	assert.True(t, l.IsUnread)
	assert.Equal(t, StatusQuoted, activity.OldStatus)
	assert.Equal(t, StatusQuoted, activity.NewStatus)
	assert.Equal(t, "quote declined", activity.Note)
}

func TestLead_MarkRead(t *testing.T) {
	l := testLead(StatusNew)
	l.Touch("activity")
	require.True(t, l.IsUnread)

	l.MarkRead()
	assert.False(t, l.IsUnread)
}
