package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// GormChangeLogRepository implements quote.ChangeLogRepository using GORM.
// The table is append-only; no update or delete path exists here.
type GormChangeLogRepository struct {
	db *gorm.DB
}

// NewGormChangeLogRepository creates a new GormChangeLogRepository
func NewGormChangeLogRepository(db *gorm.DB) *GormChangeLogRepository {
	return &GormChangeLogRepository{db: db}
}

// Append stores a new entry
func (r *GormChangeLogRepository) Append(ctx context.Context, entry *quote.ChangeLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByQuote returns a quote's entries, newest first
func (r *GormChangeLogRepository) FindByQuote(ctx context.Context, quoteID uuid.UUID, filter shared.Filter) ([]quote.ChangeLogEntry, error) {
	var entries []quote.ChangeLogEntry
	query := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByQuote counts a quote's entries
func (r *GormChangeLogRepository) CountByQuote(ctx context.Context, quoteID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&quote.ChangeLogEntry{}).
		Where("quote_id = ?", quoteID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormChangeLogRepository implements quote.ChangeLogRepository
var _ quote.ChangeLogRepository = (*GormChangeLogRepository)(nil)
