package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend/internal/domain/chat"
	"github.com/quotedesk/backend/internal/domain/shared"
)

func newMockChatRepository(t *testing.T) (*GormChatRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormChatRepository(gormDB), mock, mockDB
}

func TestGormChatRepository_FindMessagesByQuote(t *testing.T) {
	t.Run("returns messages oldest first with receipts", func(t *testing.T) {
		repo, mock, mockDB := newMockChatRepository(t)
		defer mockDB.Close()

		quoteID := uuid.New()
		messageID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "quote_chat_messages" WHERE quote_id = \$1 ORDER BY created_at ASC`).
			WithArgs(quoteID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "quote_id", "sender_name", "sender_email", "body", "created_at"}).
				AddRow(messageID, quoteID, "Sam Ortiz", "customer@example.com", "Looks good", time.Now()))

		mock.ExpectQuery(`SELECT \* FROM "quote_message_receipts" WHERE "quote_message_receipts"\."message_id" = \$1`).
			WithArgs(messageID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "message_id", "user_email", "read_at"}).
				AddRow(uuid.New(), messageID, "customer@example.com", time.Now()))

		messages, err := repo.FindMessagesByQuote(context.Background(), quoteID, shared.Filter{})

		assert.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "Looks good", messages[0].Body)
		assert.Len(t, messages[0].Receipts, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormChatRepository_FindReceipt(t *testing.T) {
	t.Run("returns nil without error when no receipt exists", func(t *testing.T) {
		repo, mock, mockDB := newMockChatRepository(t)
		defer mockDB.Close()

		messageID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "quote_message_receipts" WHERE message_id = \$1 AND user_email = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(messageID, "customer@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "message_id", "user_email", "read_at"}))

		receipt, err := repo.FindReceipt(context.Background(), messageID, "customer@example.com")

		assert.NoError(t, err)
		assert.Nil(t, receipt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lowercases the email before matching", func(t *testing.T) {
		repo, mock, mockDB := newMockChatRepository(t)
		defer mockDB.Close()

		messageID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "quote_message_receipts" WHERE message_id = \$1 AND user_email = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(messageID, "customer@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "message_id", "user_email", "read_at"}).
				AddRow(uuid.New(), messageID, "customer@example.com", time.Now()))

		receipt, err := repo.FindReceipt(context.Background(), messageID, "Customer@Example.com")

		assert.NoError(t, err)
		require.NotNil(t, receipt)
		assert.Equal(t, "customer@example.com", receipt.UserEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormChatRepository_SaveReceipt(t *testing.T) {
	t.Run("inserts a receipt", func(t *testing.T) {
		repo, mock, mockDB := newMockChatRepository(t)
		defer mockDB.Close()

		receipt, err := chat.NewReceipt(uuid.New(), "customer@example.com")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "quote_message_receipts"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveReceipt(context.Background(), receipt)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormChatRepository_CountUnread(t *testing.T) {
	t.Run("counts messages without a receipt for the user", func(t *testing.T) {
		repo, mock, mockDB := newMockChatRepository(t)
		defer mockDB.Close()

		quoteID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "quote_chat_messages" WHERE quote_id = \$1 AND NOT EXISTS`).
			WithArgs(quoteID, "customer@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountUnread(context.Background(), quoteID, "Customer@Example.com")

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
