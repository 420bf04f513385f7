package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// GormQuoteRepository implements quote.Repository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by its ID, including line items
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	var q quote.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByReference finds a quote by its human-readable reference
func (r *GormQuoteRepository) FindByReference(ctx context.Context, reference string) (*quote.Quote, error) {
	var q quote.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("reference = ?", reference).
		First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindAll finds quotes with filtering and pagination
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	var quotes []quote.Quote
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quote.Quote{}), filter)

	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindBySource finds every quote version attached to an origin document,
// newest version first
func (r *GormQuoteRepository) FindBySource(ctx context.Context, originType quote.OriginType, sourceID uuid.UUID) ([]quote.Quote, error) {
	var quotes []quote.Quote
	if err := r.db.WithContext(ctx).
		Where("origin_type = ? AND source_id = ?", originType, sourceID).
		Order("version DESC").
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindRevisions finds the quotes that name the given quote as parent
func (r *GormQuoteRepository) FindRevisions(ctx context.Context, parentID uuid.UUID) ([]quote.Quote, error) {
	var quotes []quote.Quote
	if err := r.db.WithContext(ctx).
		Where("parent_quote_id = ?", parentID).
		Order("version ASC").
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindByStatus finds quotes in the given status
func (r *GormQuoteRepository) FindByStatus(ctx context.Context, status quote.Status, filter shared.Filter) ([]quote.Quote, error) {
	var quotes []quote.Quote
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&quote.Quote{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Save creates or updates a quote together with its line items
func (r *GormQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(q).Error; err != nil {
			return err
		}
		return r.reconcileItems(tx, q)
	})
}

// SaveWithLock saves with optimistic locking on the row version
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, q *quote.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := q.RowVersion
		q.IncrementRowVersion()
		q.UpdatedAt = time.Now()

		result := tx.Model(&quote.Quote{}).
			Where("id = ? AND row_version = ?", q.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":              q.Status,
				"regional_multiplier": q.RegionalMultiplier,
				"subtotal_amount":     q.SubtotalAmount,
				"tax_amount":          q.TaxAmount,
				"discount_amount":     q.DiscountAmount,
				"options_amount":      q.OptionsAmount,
				"allowances_amount":   q.AllowancesAmount,
				"adjustments_amount":  q.AdjustmentsAmount,
				"total_amount":        q.TotalAmount,
				"valid_until":         q.ValidUntil,
				"notes":               q.Notes,
				"terms":               q.Terms,
				"signature_name":      q.SignatureName,
				"signature_email":     q.SignatureEmail,
				"decline_reason":      q.DeclineReason,
				"sent_at":             q.SentAt,
				"viewed_at":           q.ViewedAt,
				"accepted_at":         q.AcceptedAt,
				"declined_at":         q.DeclinedAt,
				"row_version":         q.RowVersion,
				"updated_at":          q.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.reconcileItems(tx, q)
	})
}

// reconcileItems deletes items no longer on the quote and upserts the rest
func (r *GormQuoteRepository) reconcileItems(tx *gorm.DB, q *quote.Quote) error {
	if len(q.Items) == 0 {
		return tx.Where("quote_id = ?", q.ID).Delete(&quote.LineItem{}).Error
	}

	currentItemIDs := make([]uuid.UUID, len(q.Items))
	for i, item := range q.Items {
		currentItemIDs[i] = item.ID
	}

	if err := tx.Where("quote_id = ? AND id NOT IN ?", q.ID, currentItemIDs).
		Delete(&quote.LineItem{}).Error; err != nil {
		return err
	}

	for i := range q.Items {
		q.Items[i].QuoteID = q.ID
		if err := tx.Save(&q.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a quote and its line items
func (r *GormQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&quote.LineItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&quote.Quote{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&quote.Quote{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReference generates the next unique reference for the origin type.
// Format: <prefix>-YYYY-NNNNNN (e.g., QB-2026-000123)
func (r *GormQuoteRepository) GenerateReference(ctx context.Context, originType quote.OriginType) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", originType.ReferencePrefix(), year)

	var lastQuote quote.Quote
	err := r.db.WithContext(ctx).
		Model(&quote.Quote{}).
		Where("reference LIKE ?", prefix+"%").
		Order("reference DESC").
		First(&lastQuote).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastQuote.Reference != "" {
		parts := strings.Split(lastQuote.Reference, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	reference := fmt.Sprintf("%s%06d", prefix, nextNum)

	exists, err := r.existsByReference(ctx, reference)
	if err != nil {
		return "", err
	}
	for i := 0; exists && i < 100; i++ {
		nextNum++
		reference = fmt.Sprintf("%s%06d", prefix, nextNum)
		exists, err = r.existsByReference(ctx, reference)
		if err != nil {
			return "", err
		}
	}

	return reference, nil
}

func (r *GormQuoteRepository) existsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&quote.Quote{}).
		Where("reference = ?", reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query, including pagination
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference ILIKE ? OR recipient_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "origin_type":
			query = query.Where("origin_type = ?", value)
		case "source_id":
			query = query.Where("source_id = ?", value)
		case "recipient_email":
			if email, ok := value.(string); ok {
				query = query.Where("LOWER(recipient_email) = LOWER(?)", email)
			}
		case "prepared_by_email":
			if email, ok := value.(string); ok {
				query = query.Where("LOWER(prepared_by_email) = LOWER(?)", email)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormQuoteRepository implements quote.Repository
var _ quote.Repository = (*GormQuoteRepository)(nil)
