package quote

import (
	"context"

	"github.com/google/uuid"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// Repository defines the interface for quote persistence
type Repository interface {
	// FindByID finds a quote by ID with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)

	// FindByReference finds a quote by its human-readable reference
	FindByReference(ctx context.Context, reference string) (*Quote, error)

	// FindAll finds quotes with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Quote, error)

	// FindBySource finds every quote version attached to an origin document,
	// newest version first
	FindBySource(ctx context.Context, originType OriginType, sourceID uuid.UUID) ([]Quote, error)

	// FindRevisions finds the quotes that name the given quote as parent
	FindRevisions(ctx context.Context, parentID uuid.UUID) ([]Quote, error)

	// FindByStatus finds quotes in the given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Quote, error)

	// Save creates or updates a quote together with its line items
	Save(ctx context.Context, q *Quote) error

	// SaveWithLock saves with optimistic locking (row-version check)
	SaveWithLock(ctx context.Context, q *Quote) error

	// Delete deletes a draft quote and its line items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts quotes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateReference generates the next unique reference for the origin
	// type, e.g. QB-2026-000123
	GenerateReference(ctx context.Context, originType OriginType) (string, error)
}

// ChangeLogRepository defines the interface for the append-only audit trail
type ChangeLogRepository interface {
	// Append stores a new entry; entries are never updated or deleted
	Append(ctx context.Context, entry *ChangeLogEntry) error

	// FindByQuote returns a quote's entries, newest first
	FindByQuote(ctx context.Context, quoteID uuid.UUID, filter shared.Filter) ([]ChangeLogEntry, error)

	// CountByQuote counts a quote's entries
	CountByQuote(ctx context.Context, quoteID uuid.UUID) (int64, error)
}
