package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend/internal/domain/lead"
)

func newMockLeadRepository(t *testing.T) (*GormLeadRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormLeadRepository(gormDB), mock, mockDB
}

func TestGormLeadRepository_FindBySource(t *testing.T) {
	t.Run("finds lead with its activities", func(t *testing.T) {
		repo, mock, mockDB := newMockLeadRepository(t)
		defer mockDB.Close()

		leadID := uuid.New()
		sourceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE source_type = \$1 AND source_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("build_request", sourceID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "source_type", "source_id", "status", "is_unread", "row_version"}).
				AddRow(leadID, "build_request", sourceID, "new", false, 1))

		mock.ExpectQuery(`SELECT \* FROM "lead_activities" WHERE "lead_activities"\."lead_id" = \$1`).
			WithArgs(leadID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "lead_id", "old_status", "new_status", "note"}))

		l, err := repo.FindBySource(context.Background(), "build_request", sourceID)

		assert.NoError(t, err)
		require.NotNil(t, l)
		assert.Equal(t, lead.StatusNew, l.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil without error when no lead exists", func(t *testing.T) {
		repo, mock, mockDB := newMockLeadRepository(t)
		defer mockDB.Close()

		sourceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE source_type = \$1 AND source_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("construction_request", sourceID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "source_type", "source_id", "status", "is_unread", "row_version"}))

		l, err := repo.FindBySource(context.Background(), "construction_request", sourceID)

		assert.NoError(t, err)
		assert.Nil(t, l)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
