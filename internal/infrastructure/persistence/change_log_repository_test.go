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

	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
)

func newMockChangeLogRepository(t *testing.T) (*GormChangeLogRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormChangeLogRepository(gormDB), mock, mockDB
}

func TestGormChangeLogRepository_Append(t *testing.T) {
	t.Run("inserts an entry", func(t *testing.T) {
		repo, mock, mockDB := newMockChangeLogRepository(t)
		defer mockDB.Close()

		entry, err := quote.NewChangeLogEntry(uuid.New(), quote.ChangeActionCreate,
			shared.NewActor("Dana Reyes", "agent@homebuilders.example"),
			quote.FieldChanges{}, "")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "quote_change_logs"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Append(context.Background(), entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormChangeLogRepository_FindByQuote(t *testing.T) {
	t.Run("returns entries newest first", func(t *testing.T) {
		repo, mock, mockDB := newMockChangeLogRepository(t)
		defer mockDB.Close()

		quoteID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "quote_change_logs" WHERE quote_id = \$1 ORDER BY created_at DESC`).
			WithArgs(quoteID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "quote_id", "action", "actor_name", "actor_email", "created_at"}).
				AddRow(uuid.New(), quoteID, "submit", "Dana Reyes", "agent@homebuilders.example", now).
				AddRow(uuid.New(), quoteID, "create", "Dana Reyes", "agent@homebuilders.example", now.Add(-time.Hour)))

		entries, err := repo.FindByQuote(context.Background(), quoteID, shared.Filter{})

		assert.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, quote.ChangeActionSubmit, entries[0].Action)
		assert.Equal(t, quote.ChangeActionCreate, entries[1].Action)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormChangeLogRepository_CountByQuote(t *testing.T) {
	t.Run("counts a quote's entries", func(t *testing.T) {
		repo, mock, mockDB := newMockChangeLogRepository(t)
		defer mockDB.Close()

		quoteID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "quote_change_logs" WHERE quote_id = \$1`).
			WithArgs(quoteID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountByQuote(context.Background(), quoteID)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
