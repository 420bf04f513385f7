package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quotedesk/backend/internal/domain/lead"
)

// GormLeadRepository implements lead.Repository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindBySource finds the lead keyed by (source type, source ID). A missing
// lead is not an error: the caller treats it as "nothing to sync".
func (r *GormLeadRepository) FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) (*lead.Lead, error) {
	var l lead.Lead
	if err := r.db.WithContext(ctx).
		Preload("Activities").
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// Save updates a lead together with any newly appended activities
func (r *GormLeadRepository) Save(ctx context.Context, l *lead.Lead) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(l).Error; err != nil {
			return err
		}
		for i := range l.Activities {
			l.Activities[i].LeadID = l.ID
			if err := tx.Save(&l.Activities[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormLeadRepository implements lead.Repository
var _ lead.Repository = (*GormLeadRepository)(nil)
