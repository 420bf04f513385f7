package lead

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for lead persistence. The quoting side
// holds only the narrow slice it needs: lookup by source and save.
type Repository interface {
	// FindBySource finds the lead keyed by (source type, source ID), or nil
	// when no lead exists for that source
	FindBySource(ctx context.Context, sourceType string, sourceID uuid.UUID) (*Lead, error)

	// Save updates a lead together with any newly appended activities
	Save(ctx context.Context, l *Lead) error
}
