package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/domain/shared/valueobject"
)

// Status represents the negotiation state of a quote
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusViewed   Status = "viewed"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for accepted and declined quotes
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// CanTransitionTo checks if the status can transition to the target status.
// No transition ever moves backward.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusSent
	case StatusSent:
		return target == StatusViewed || target == StatusAccepted || target == StatusDeclined
	case StatusViewed:
		return target == StatusAccepted || target == StatusDeclined
	case StatusAccepted, StatusDeclined:
		return false // Terminal states
	}
	return false
}

// OriginType identifies which kind of source document a quote prices
type OriginType string

const (
	OriginBuildRequest        OriginType = "build_request"
	OriginConstructionRequest OriginType = "construction_request"
)

// IsValid checks if the origin type is valid
func (o OriginType) IsValid() bool {
	return o == OriginBuildRequest || o == OriginConstructionRequest
}

// ReferencePrefix returns the human-readable reference prefix for quotes
// of this origin ("QB-..." for build requests, "QC-..." for construction
// projects).
func (o OriginType) ReferencePrefix() string {
	if o == OriginConstructionRequest {
		return "QC"
	}
	return "QB"
}

// Origin is the tagged union identifying a quote's single source document.
// A quote belongs to exactly one build request XOR one construction request;
// the pairing is enforced here at construction time rather than as two
// nullable foreign keys.
type Origin struct {
	Type     OriginType
	SourceID uuid.UUID
}

// NewOrigin validates and builds an origin reference
func NewOrigin(originType OriginType, sourceID uuid.UUID) (Origin, error) {
	if !originType.IsValid() {
		return Origin{}, shared.NewValidationError("origin_type", fmt.Sprintf("%q is not a valid origin type", originType))
	}
	if sourceID == uuid.Nil {
		return Origin{}, shared.NewValidationError("source_id", "source ID cannot be empty")
	}
	return Origin{Type: originType, SourceID: sourceID}, nil
}

// Quote is the aggregate root for a priced, versioned offer document.
// It owns its line items, derives every monetary total through the
// calculator, and walks the draft -> sent -> viewed -> accepted/declined
// state machine.
type Quote struct {
	shared.BaseAggregateRoot
	Reference          string
	OriginType         OriginType
	SourceID           uuid.UUID
	Status             Status
	CurrencyCode       valueobject.Currency
	RegionalMultiplier decimal.Decimal
	SubtotalAmount     decimal.Decimal
	TaxAmount          decimal.Decimal
	DiscountAmount     decimal.Decimal
	OptionsAmount      decimal.Decimal
	AllowancesAmount   decimal.Decimal
	AdjustmentsAmount  decimal.Decimal
	TotalAmount        decimal.Decimal
	Version            int        // business revision number, starts at 1
	ParentQuoteID      *uuid.UUID // quote this one revises; the parent does not know its children
	ValidUntil         *time.Time
	PreparedByName     string
	PreparedByEmail    string
	RecipientName      string
	RecipientEmail     string
	Notes              string
	Terms              string
	Items              []LineItem `gorm:"foreignKey:QuoteID"`
	SignatureName      string
	SignatureEmail     string
	DeclineReason      string
	SentAt             *time.Time
	ViewedAt           *time.Time
	AcceptedAt         *time.Time
	DeclinedAt         *time.Time
}

// TableName maps the aggregate to its table
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a draft quote for the given origin
func NewQuote(reference string, origin Origin, preparedBy shared.Actor, recipientName, recipientEmail string, currency valueobject.Currency, regionalMultiplier decimal.Decimal) (*Quote, error) {
	if reference == "" {
		return nil, shared.NewValidationError("reference", "reference cannot be empty")
	}
	if preparedBy.Email == "" {
		return nil, shared.NewValidationError("prepared_by", "preparer email cannot be empty")
	}
	if recipientEmail == "" {
		return nil, shared.NewValidationError("recipient_email", "recipient email cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("currency_code", fmt.Sprintf("%q is not a supported currency", currency))
	}
	if regionalMultiplier.IsNegative() {
		return nil, shared.NewValidationError("regional_multiplier", "regional multiplier cannot be negative")
	}

	q := &Quote{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Reference:          reference,
		OriginType:         origin.Type,
		SourceID:           origin.SourceID,
		Status:             StatusDraft,
		CurrencyCode:       currency,
		RegionalMultiplier: regionalMultiplier,
		Version:            1,
		PreparedByName:     preparedBy.Name,
		PreparedByEmail:    preparedBy.Email,
		RecipientName:      recipientName,
		RecipientEmail:     recipientEmail,
		Items:              make([]LineItem, 0),
	}
	q.applyTotals(ZeroTotals())

	q.AddDomainEvent(NewQuoteCreatedEvent(q, preparedBy))

	return q, nil
}

// CanModify returns true while the quote's line items and monetary inputs
// may still be edited
func (q *Quote) CanModify() bool {
	return q.Status == StatusDraft
}

// guardModifiable rejects edits outside draft with an error naming the
// statuses that permit editing
func (q *Quote) guardModifiable() error {
	if q.CanModify() {
		return nil
	}
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("quote is %s; line items and pricing inputs can only be edited while the quote is in %s status", q.Status, StatusDraft))
}

// AddItem appends a new line item and recomputes totals.
// Only allowed in draft status.
func (q *Quote) AddItem(kind LineItemKind, label string, quantity, unitCost decimal.Decimal, applyMultiplier bool, metadata ItemMetadata) (*LineItem, error) {
	if err := q.guardModifiable(); err != nil {
		return nil, err
	}

	item, err := NewLineItem(q.ID, kind, label, quantity, unitCost, applyMultiplier, len(q.Items), metadata)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	q.Recalculate()
	q.UpdatedAt = time.Now()

	return &q.Items[len(q.Items)-1], nil
}

// UpdateItem edits an existing line item and recomputes totals.
// Only allowed in draft status.
func (q *Quote) UpdateItem(itemID uuid.UUID, label string, quantity, unitCost decimal.Decimal, applyMultiplier bool, metadata ItemMetadata) error {
	if err := q.guardModifiable(); err != nil {
		return err
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			if err := q.Items[idx].Update(label, quantity, unitCost, applyMultiplier, metadata); err != nil {
				return err
			}
			q.Recalculate()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "quote line item not found")
}

// RemoveItem deletes a line item and recomputes totals.
// Only allowed in draft status.
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if err := q.guardModifiable(); err != nil {
		return err
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			for pos := range q.Items {
				q.Items[pos].Position = pos
			}
			q.Recalculate()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "quote line item not found")
}

// SetRegionalMultiplier changes the region multiplier and recomputes totals.
// Only allowed in draft status.
func (q *Quote) SetRegionalMultiplier(multiplier decimal.Decimal) error {
	if err := q.guardModifiable(); err != nil {
		return err
	}
	if multiplier.IsNegative() {
		return shared.NewValidationError("regional_multiplier", "regional multiplier cannot be negative")
	}

	q.RegionalMultiplier = multiplier
	q.Recalculate()
	q.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the free-text notes. Only allowed in draft status.
func (q *Quote) SetNotes(notes string) error {
	if err := q.guardModifiable(); err != nil {
		return err
	}
	q.Notes = notes
	q.UpdatedAt = time.Now()
	return nil
}

// SetTerms sets the terms text. Only allowed in draft status.
func (q *Quote) SetTerms(terms string) error {
	if err := q.guardModifiable(); err != nil {
		return err
	}
	q.Terms = terms
	q.UpdatedAt = time.Now()
	return nil
}

// SetValidUntil sets the expiry date. Only allowed in draft status.
func (q *Quote) SetValidUntil(validUntil *time.Time) error {
	if err := q.guardModifiable(); err != nil {
		return err
	}
	q.ValidUntil = validUntil
	q.UpdatedAt = time.Now()
	return nil
}

// Send transitions the quote from draft to sent and records the dispatch time
func (q *Quote) Send(actor shared.Actor) error {
	if !q.Status.CanTransitionTo(StatusSent) {
		return shared.NewInvalidTransitionError(q.Status.String(), StatusSent.String())
	}

	now := time.Now()
	q.Status = StatusSent
	q.SentAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteSentEvent(q, actor))

	return nil
}

// MarkViewed records that the recipient opened the quote
func (q *Quote) MarkViewed(actor shared.Actor) error {
	if !q.Status.CanTransitionTo(StatusViewed) {
		return shared.NewInvalidTransitionError(q.Status.String(), StatusViewed.String())
	}

	now := time.Now()
	q.Status = StatusViewed
	q.ViewedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteViewedEvent(q, actor))

	return nil
}

// Accept transitions the quote to accepted and captures the signature.
// The quote becomes fully immutable afterwards.
func (q *Quote) Accept(actor shared.Actor, signatureName, signatureEmail string) error {
	if !q.Status.CanTransitionTo(StatusAccepted) {
		return shared.NewInvalidTransitionError(q.Status.String(), StatusAccepted.String())
	}
	if signatureName == "" {
		return shared.NewValidationError("signature_name", "signature name is required")
	}
	if signatureEmail == "" {
		return shared.NewValidationError("signature_email", "signature email is required")
	}

	now := time.Now()
	q.Status = StatusAccepted
	q.SignatureName = signatureName
	q.SignatureEmail = signatureEmail
	q.AcceptedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteAcceptedEvent(q, actor))

	return nil
}

// Decline transitions the quote to declined, storing the reason
func (q *Quote) Decline(actor shared.Actor, reason string) error {
	if !q.Status.CanTransitionTo(StatusDeclined) {
		return shared.NewInvalidTransitionError(q.Status.String(), StatusDeclined.String())
	}
	if reason == "" {
		return shared.NewValidationError("reason", "decline reason is required")
	}

	now := time.Now()
	q.Status = StatusDeclined
	q.DeclineReason = reason
	q.DeclinedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteDeclinedEvent(q, actor))

	return nil
}

// NewRevision clones this quote into a fresh draft at version+1 with a
// back-reference to this quote. Line items are deep-copied with new
// identities; this quote's status and totals are untouched. Revising is
// only allowed once the quote has left draft.
func (q *Quote) NewRevision(reference string, actor shared.Actor, reason string) (*Quote, error) {
	if q.Status == StatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "a draft quote can be edited directly; revisions are only created after sending")
	}
	if reason == "" {
		return nil, shared.NewValidationError("reason", "revision reason is required")
	}
	if reference == "" {
		return nil, shared.NewValidationError("reference", "reference cannot be empty")
	}

	parentID := q.ID
	revision := &Quote{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Reference:          reference,
		OriginType:         q.OriginType,
		SourceID:           q.SourceID,
		Status:             StatusDraft,
		CurrencyCode:       q.CurrencyCode,
		RegionalMultiplier: q.RegionalMultiplier,
		Version:            q.Version + 1,
		ParentQuoteID:      &parentID,
		ValidUntil:         q.ValidUntil,
		PreparedByName:     q.PreparedByName,
		PreparedByEmail:    q.PreparedByEmail,
		RecipientName:      q.RecipientName,
		RecipientEmail:     q.RecipientEmail,
		Notes:              q.Notes,
		Terms:              q.Terms,
		Items:              make([]LineItem, 0, len(q.Items)),
	}

	for idx := range q.Items {
		revision.Items = append(revision.Items, *q.Items[idx].Clone(revision.ID))
	}
	revision.Recalculate()

	revision.AddDomainEvent(NewQuoteRevisedEvent(revision, q.ID, actor, reason))

	return revision, nil
}

// Recalculate recomputes every derived total from the current line items.
// This is the only write path into the monetary fields.
func (q *Quote) Recalculate() {
	q.applyTotals(CalculateTotals(q.Items, q.RegionalMultiplier))
}

func (q *Quote) applyTotals(t Totals) {
	q.SubtotalAmount = t.Subtotal
	q.TaxAmount = t.Tax
	q.DiscountAmount = t.Discount
	q.OptionsAmount = t.Options
	q.AllowancesAmount = t.Allowances
	q.AdjustmentsAmount = t.Adjustments
	q.TotalAmount = t.Total
}

// CurrentTotals returns the stored breakdown
func (q *Quote) CurrentTotals() Totals {
	return Totals{
		Subtotal:    q.SubtotalAmount,
		Tax:         q.TaxAmount,
		Discount:    q.DiscountAmount,
		Options:     q.OptionsAmount,
		Allowances:  q.AllowancesAmount,
		Adjustments: q.AdjustmentsAmount,
		Total:       q.TotalAmount,
	}
}

// TotalMoney returns the grand total as a Money value in the quote's
// currency. The currency is validated at construction, so NewMoney cannot
// fail here.
func (q *Quote) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.TotalAmount, q.CurrencyCode)
	return m
}

// GetItem returns an item by its ID, or nil
func (q *Quote) GetItem(itemID uuid.UUID) *LineItem {
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			return &q.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (q *Quote) ItemCount() int {
	return len(q.Items)
}

// IsParticipant reports whether the given email identifies one of the two
// sides of this quote (preparer or recipient). Matching is exact and
// case-insensitive; there is deliberately no substring matching.
func (q *Quote) IsParticipant(email string) bool {
	if email == "" {
		return false
	}
	return strings.EqualFold(email, q.PreparedByEmail) || strings.EqualFold(email, q.RecipientEmail)
}

// OtherParticipant returns the participant on the opposite side of the
// given email: the recipient for the preparer and vice versa. The second
// return is false when the email is not a participant at all.
func (q *Quote) OtherParticipant(email string) (shared.Actor, bool) {
	switch {
	case strings.EqualFold(email, q.PreparedByEmail):
		return shared.NewActor(q.RecipientName, q.RecipientEmail), true
	case strings.EqualFold(email, q.RecipientEmail):
		return shared.NewActor(q.PreparedByName, q.PreparedByEmail), true
	}
	return shared.Actor{}, false
}
