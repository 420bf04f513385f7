package quote

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// LineItemKind classifies a quote line item
type LineItemKind string

const (
	LineItemKindBase       LineItemKind = "base"       // core scope of work
	LineItemKindOption     LineItemKind = "option"     // customer-selected upgrade
	LineItemKindAllowance  LineItemKind = "allowance"  // budgeted placeholder amount
	LineItemKindAdjustment LineItemKind = "adjustment" // discount (negative) or surcharge (positive)
)

// IsValid checks if the kind is a valid LineItemKind
func (k LineItemKind) IsValid() bool {
	switch k {
	case LineItemKindBase, LineItemKindOption, LineItemKindAllowance, LineItemKindAdjustment:
		return true
	}
	return false
}

// String returns the string representation of LineItemKind
func (k LineItemKind) String() string {
	return string(k)
}

// ItemMetadata is an open key/value bag attached to a line item.
// Recognized keys: "tax_amount" and "discount_amount" (decimal strings)
// which feed the quote-level tax and discount totals.
type ItemMetadata map[string]string

// MetadataKeyTaxAmount and MetadataKeyDiscountAmount are the calculator-recognized keys
const (
	MetadataKeyTaxAmount      = "tax_amount"
	MetadataKeyDiscountAmount = "discount_amount"
)

// DecimalValue parses the named key as a decimal, returning zero when the
// key is absent or unparseable.
func (m ItemMetadata) DecimalValue(key string) decimal.Decimal {
	raw, ok := m[key]
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// TaxAmount returns the tax annotation for this item, defaulting to zero
func (m ItemMetadata) TaxAmount() decimal.Decimal {
	return m.DecimalValue(MetadataKeyTaxAmount)
}

// DiscountAmount returns the discount annotation for this item, defaulting to zero
func (m ItemMetadata) DiscountAmount() decimal.Decimal {
	return m.DecimalValue(MetadataKeyDiscountAmount)
}

// Value implements driver.Valuer, storing the metadata as JSON
func (m ItemMetadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *ItemMetadata) Scan(value any) error {
	if value == nil {
		*m = ItemMetadata{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ItemMetadata", value)
	}
	if len(data) == 0 {
		*m = ItemMetadata{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// LineItem represents one priced component of a quote.
// It is owned exclusively by its quote and deleted with it.
type LineItem struct {
	ID                    uuid.UUID
	QuoteID               uuid.UUID
	Kind                  LineItemKind
	Label                 string
	Quantity              decimal.Decimal
	UnitCost              decimal.Decimal
	ApplyRegionMultiplier bool
	Position              int
	Metadata              ItemMetadata `gorm:"type:jsonb"`
	CalculatedTotal       decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName maps the entity to its table
func (LineItem) TableName() string {
	return "quote_line_items"
}

// NewLineItem creates a new line item and validates the kind's sign convention.
// The calculated total is filled in by the owning quote when it recomputes.
func NewLineItem(quoteID uuid.UUID, kind LineItemKind, label string, quantity, unitCost decimal.Decimal, applyMultiplier bool, position int, metadata ItemMetadata) (*LineItem, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("kind", fmt.Sprintf("%q is not a valid line item kind", kind))
	}
	if label == "" {
		return nil, shared.NewValidationError("label", "label cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("quantity", "quantity must be positive")
	}
	if unitCost.IsNegative() && kind != LineItemKindAdjustment {
		return nil, shared.NewValidationError("unit_cost", fmt.Sprintf("negative unit cost is only valid for %s items", LineItemKindAdjustment))
	}
	if metadata == nil {
		metadata = ItemMetadata{}
	}

	now := time.Now()
	return &LineItem{
		ID:                    uuid.New(),
		QuoteID:               quoteID,
		Kind:                  kind,
		Label:                 label,
		Quantity:              quantity,
		UnitCost:              unitCost,
		ApplyRegionMultiplier: applyMultiplier,
		Position:              position,
		Metadata:              metadata,
		CalculatedTotal:       decimal.Zero,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// Update applies new pricing inputs to the item, re-validating sign conventions
func (i *LineItem) Update(label string, quantity, unitCost decimal.Decimal, applyMultiplier bool, metadata ItemMetadata) error {
	if label == "" {
		return shared.NewValidationError("label", "label cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("quantity", "quantity must be positive")
	}
	if unitCost.IsNegative() && i.Kind != LineItemKindAdjustment {
		return shared.NewValidationError("unit_cost", fmt.Sprintf("negative unit cost is only valid for %s items", LineItemKindAdjustment))
	}

	i.Label = label
	i.Quantity = quantity
	i.UnitCost = unitCost
	i.ApplyRegionMultiplier = applyMultiplier
	if metadata != nil {
		i.Metadata = metadata
	}
	i.UpdatedAt = time.Now()

	return nil
}

// Clone returns a deep copy of the item with a fresh identity, attached to
// the given quote. Used when building a revision.
func (i *LineItem) Clone(quoteID uuid.UUID) *LineItem {
	metadata := make(ItemMetadata, len(i.Metadata))
	for k, v := range i.Metadata {
		metadata[k] = v
	}

	now := time.Now()
	return &LineItem{
		ID:                    uuid.New(),
		QuoteID:               quoteID,
		Kind:                  i.Kind,
		Label:                 i.Label,
		Quantity:              i.Quantity,
		UnitCost:              i.UnitCost,
		ApplyRegionMultiplier: i.ApplyRegionMultiplier,
		Position:              i.Position,
		Metadata:              metadata,
		CalculatedTotal:       i.CalculatedTotal,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}
