package quote

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/quote"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/domain/shared/valueobject"
)

// keyedMutex serializes writes per quote while leaving unrelated quotes
// fully parallel
type keyedMutex struct {
	locks sync.Map
}

// Lock acquires the mutex for the given key and returns its unlock func
func (k *keyedMutex) Lock(key uuid.UUID) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// QuoteService handles quote lifecycle operations. Every mutating path runs
// under the per-quote mutex and saves with an optimistic row-version check,
// so a stale writer fails instead of clobbering a concurrent change.
type QuoteService struct {
	quoteRepo      quote.Repository
	changeLogRepo  quote.ChangeLogRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	writeLocks     keyedMutex
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quoteRepo quote.Repository, changeLogRepo quote.ChangeLogRepository, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		quoteRepo:     quoteRepo,
		changeLogRepo: changeLogRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for cross-aggregate integration
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft quote with its initial line items
func (s *QuoteService) Create(ctx context.Context, actor shared.Actor, req CreateQuoteRequest) (*QuoteResponse, error) {
	origin, err := quote.NewOrigin(quote.OriginType(req.OriginType), req.SourceID)
	if err != nil {
		return nil, err
	}

	reference, err := s.quoteRepo.GenerateReference(ctx, origin.Type)
	if err != nil {
		return nil, err
	}

	multiplier := decimal.NewFromInt(1)
	if req.RegionalMultiplier != nil {
		multiplier = *req.RegionalMultiplier
	}

	q, err := quote.NewQuote(reference, origin, actor, req.RecipientName, req.RecipientEmail,
		valueobject.Currency(req.CurrencyCode), multiplier)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		if _, err := q.AddItem(quote.LineItemKind(input.Kind), input.Label, input.Quantity,
			input.UnitCost, input.ApplyRegionMultiplier, input.Metadata); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		if err := q.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}
	if req.Terms != "" {
		if err := q.SetTerms(req.Terms); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		if err := q.SetValidUntil(req.ValidUntil); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	s.appendLog(ctx, q.ID, quote.ChangeActionCreate, actor, nil, "quote "+q.Reference+" created")
	s.publishEvents(ctx, q)

	response := ToQuoteResponse(q)
	return &response, nil
}

// GetByID retrieves a quote with its line items
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(q)
	return &response, nil
}

// GetTimeline retrieves a quote's change log, newest first
func (s *QuoteService) GetTimeline(ctx context.Context, id uuid.UUID) ([]ChangeLogEntryResponse, error) {
	if _, err := s.quoteRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.changeLogRepo.FindByQuote(ctx, id, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToChangeLogEntryResponses(entries), nil
}

// EstimateROI computes the return profile of a quote's total cost against
// the recipient's projected annual savings over the investment's lifespan
func (s *QuoteService) EstimateROI(ctx context.Context, id uuid.UUID, annualSavings, lifespanYears decimal.Decimal) (*ROIResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := quote.CalculateROI(q.TotalAmount, annualSavings, lifespanYears)
	if err != nil {
		return nil, err
	}

	response := ToROIResponse(q, result)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, filter QuoteListFilter) (*shared.Paginated[QuoteResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerEmail != "" {
		domainFilter.Filters["recipient_email"] = filter.CustomerEmail
	}
	if filter.OriginType != "" {
		domainFilter.Filters["origin_type"] = filter.OriginType
	}
	if filter.SourceID != "" {
		domainFilter.Filters["source_id"] = filter.SourceID
	}

	quotes, err := s.quoteRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.quoteRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToQuoteResponses(quotes), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListBySource retrieves every quote version for an origin document
func (s *QuoteService) ListBySource(ctx context.Context, originType string, sourceID uuid.UUID) ([]QuoteResponse, error) {
	origin, err := quote.NewOrigin(quote.OriginType(originType), sourceID)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quoteRepo.FindBySource(ctx, origin.Type, origin.SourceID)
	if err != nil {
		return nil, err
	}
	return ToQuoteResponses(quotes), nil
}

// Update applies draft-only field updates
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, actor shared.Actor, req UpdateQuoteRequest) (*QuoteResponse, error) {
	unlock := s.writeLocks.Lock(id)
	defer unlock()

	q, err := s.authorizedQuote(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	changes := quote.FieldChanges{}

	if req.RegionalMultiplier != nil {
		old := q.RegionalMultiplier
		if err := q.SetRegionalMultiplier(*req.RegionalMultiplier); err != nil {
			return nil, err
		}
		changes = append(changes, quote.FieldChange{
			Field: "regional_multiplier", OldValue: old.String(), NewValue: req.RegionalMultiplier.String(),
		})
	}
	if req.Notes != nil {
		old := q.Notes
		if err := q.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
		changes = append(changes, quote.FieldChange{Field: "notes", OldValue: old, NewValue: *req.Notes})
	}
	if req.Terms != nil {
		old := q.Terms
		if err := q.SetTerms(*req.Terms); err != nil {
			return nil, err
		}
		changes = append(changes, quote.FieldChange{Field: "terms", OldValue: old, NewValue: *req.Terms})
	}
	if req.ValidUntil != nil {
		old := ""
		if q.ValidUntil != nil {
			old = q.ValidUntil.Format("2006-01-02")
		}
		if err := q.SetValidUntil(req.ValidUntil); err != nil {
			return nil, err
		}
		changes = append(changes, quote.FieldChange{
			Field: "valid_until", OldValue: old, NewValue: req.ValidUntil.Format("2006-01-02"),
		})
	}

	if len(changes) == 0 {
		response := ToQuoteResponse(q)
		return &response, nil
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}

	s.appendLog(ctx, q.ID, quote.ChangeActionUpdate, actor, changes, "")

	response := ToQuoteResponse(q)
	return &response, nil
}

// AddItem adds a line item to a draft quote
func (s *QuoteService) AddItem(ctx context.Context, id uuid.UUID, actor shared.Actor, input LineItemInput) (*QuoteResponse, error) {
	unlock := s.writeLocks.Lock(id)
	defer unlock()

	q, err := s.authorizedQuote(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	item, err := q.AddItem(quote.LineItemKind(input.Kind), input.Label, input.Quantity,
		input.UnitCost, input.ApplyRegionMultiplier, input.Metadata)
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}

	s.appendLog(ctx, q.ID, quote.ChangeActionUpdate, actor, quote.FieldChanges{
		{Field: "items", NewValue: item.Label},
	}, "line item added")

	response := ToQuoteResponse(q)
	return &response, nil
}

// UpdateItem updates a line item on a draft quote
func (s *QuoteService) UpdateItem(ctx context.Context, id, itemID uuid.UUID, actor shared.Actor, input LineItemInput) (*QuoteResponse, error) {
	unlock := s.writeLocks.Lock(id)
	defer unlock()

	q, err := s.authorizedQuote(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	item := q.GetItem(itemID)
	if item == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "quote line item not found")
	}
	oldLabel := item.Label

	if err := q.UpdateItem(itemID, input.Label, input.Quantity, input.UnitCost,
		input.ApplyRegionMultiplier, input.Metadata); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}

	s.appendLog(ctx, q.ID, quote.ChangeActionUpdate, actor, quote.FieldChanges{
		{Field: "items", OldValue: oldLabel, NewValue: input.Label},
	}, "line item updated")

	response := ToQuoteResponse(q)
	return &response, nil
}

// RemoveItem removes a line item from a draft quote
func (s *QuoteService) RemoveItem(ctx context.Context, id, itemID uuid.UUID, actor shared.Actor) (*QuoteResponse, error) {
	unlock := s.writeLocks.Lock(id)
	defer unlock()

	q, err := s.authorizedQuote(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	item := q.GetItem(itemID)
	if item == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "quote line item not found")
	}
	removedLabel := item.Label

	if err := q.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}

	s.appendLog(ctx, q.ID, quote.ChangeActionUpdate, actor, quote.FieldChanges{
		{Field: "items", OldValue: removedLabel},
	}, "line item removed")

	response := ToQuoteResponse(q)
	return &response, nil
}

// Delete deletes a draft quote
func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	unlock := s.writeLocks.Lock(id)
	defer unlock()

	q, err := s.authorizedQuote(ctx, id, actor)
	if err != nil {
		return err
	}
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "only draft quotes can be deleted")
	}

	return s.quoteRepo.Delete(ctx, id)
}

// Send transitions a draft quote to sent
func (s *QuoteService) Send(ctx context.Context, id uuid.UUID, actor shared.Actor) (*QuoteResponse, error) {
	return s.transition(ctx, id, actor, quote.ChangeActionSubmit, func(q *quote.Quote) error {
		return q.Send(actor)
	})
}

// MarkViewed records the recipient opening a sent quote
func (s *QuoteService) MarkViewed(ctx context.Context, id uuid.UUID, actor shared.Actor) (*QuoteResponse, error) {
	return s.transition(ctx, id, actor, quote.ChangeActionUpdate, func(q *quote.Quote) error {
		return q.MarkViewed(actor)
	})
}

// Accept transitions a quote to accepted with the recipient's signature
func (s *QuoteService) Accept(ctx context.Context, id uuid.UUID, actor shared.Actor, req AcceptQuoteRequest) (*QuoteResponse, error) {
	return s.transition(ctx, id, actor, quote.ChangeActionApprove, func(q *quote.Quote) error {
		return q.Accept(actor, req.SignatureName, req.SignatureEmail)
	})
}

// Decline transitions a quote to declined with the stated reason
func (s *QuoteService) Decline(ctx context.Context, id uuid.UUID, actor shared.Actor, req DeclineQuoteRequest) (*QuoteResponse, error) {
	return s.transition(ctx, id, actor, quote.ChangeActionReject, func(q *quote.Quote) error {
		return q.Decline(actor, req.Reason)
	})
}

// Revise clones a non-draft quote into a fresh draft at the next version
func (s *QuoteService) Revise(ctx context.Context, id uuid.UUID, actor shared.Actor, req ReviseQuoteRequest) (*QuoteResponse, error) {
	unlock := s.writeLocks.Lock(id)
	defer unlock()

	parent, err := s.authorizedQuote(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	reference, err := s.quoteRepo.GenerateReference(ctx, parent.OriginType)
	if err != nil {
		return nil, err
	}

	revision, err := parent.NewRevision(reference, actor, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, revision); err != nil {
		return nil, err
	}

	s.appendLog(ctx, revision.ID, quote.ChangeActionRevise, actor, quote.FieldChanges{
		{Field: "version", OldValue: parent.Reference, NewValue: revision.Reference},
	}, req.Reason)
	s.publishEvents(ctx, revision)

	response := ToQuoteResponse(revision)
	return &response, nil
}

// transition runs one lifecycle step under the per-quote lock: authorize,
// mutate, persist with the optimistic version check, append the audit
// entry, publish events.
func (s *QuoteService) transition(ctx context.Context, id uuid.UUID, actor shared.Actor, action quote.ChangeAction, mutate func(*quote.Quote) error) (*QuoteResponse, error) {
	unlock := s.writeLocks.Lock(id)
	defer unlock()

	q, err := s.authorizedQuote(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	fromStatus := q.Status
	if err := mutate(q); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}

	s.appendLog(ctx, q.ID, action, actor, quote.StatusChange(fromStatus, q.Status), "")
	s.publishEvents(ctx, q)

	response := ToQuoteResponse(q)
	return &response, nil
}

// authorizedQuote loads a quote and checks the actor is one of its two
// participants
func (s *QuoteService) authorizedQuote(ctx context.Context, id uuid.UUID, actor shared.Actor) (*quote.Quote, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.IsParticipant(actor.Email) {
		return nil, shared.ErrForbidden
	}
	return q, nil
}

// appendLog appends an audit entry. The quote mutation has already been
// persisted at this point, so an audit miss is logged rather than failing
// the completed operation.
func (s *QuoteService) appendLog(ctx context.Context, quoteID uuid.UUID, action quote.ChangeAction, actor shared.Actor, changes quote.FieldChanges, note string) {
	entry, err := quote.NewChangeLogEntry(quoteID, action, actor, changes, note)
	if err != nil {
		s.logger.Warn("failed to build change log entry",
			zap.String("quote_id", quoteID.String()),
			zap.String("action", action.String()),
			zap.Error(err),
		)
		return
	}
	if err := s.changeLogRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append change log entry",
			zap.String("quote_id", quoteID.String()),
			zap.String("action", action.String()),
			zap.Error(err),
		)
	}
}

// publishEvents publishes pending domain events. Handler failures never
// roll back the persisted mutation.
func (s *QuoteService) publishEvents(ctx context.Context, q *quote.Quote) {
	if s.eventPublisher == nil {
		q.ClearDomainEvents()
		return
	}
	for _, event := range q.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.String("quote_id", q.ID.String()),
				zap.Error(err),
			)
		}
	}
	q.ClearDomainEvents()
}
