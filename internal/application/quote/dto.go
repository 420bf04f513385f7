package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quotedesk/backend/internal/domain/chat"
	"github.com/quotedesk/backend/internal/domain/quote"
)

// ==================== Quote DTOs ====================

// LineItemInput represents one line item in a create or item request
type LineItemInput struct {
	Kind                  string            `json:"kind" binding:"required"`
	Label                 string            `json:"label" binding:"required,min=1,max=200"`
	Quantity              decimal.Decimal   `json:"quantity" binding:"required"`
	UnitCost              decimal.Decimal   `json:"unit_cost" binding:"required"`
	ApplyRegionMultiplier bool              `json:"apply_region_multiplier"`
	Metadata              map[string]string `json:"metadata"`
}

// CreateQuoteRequest represents a request to create a draft quote
type CreateQuoteRequest struct {
	OriginType         string           `json:"origin_type" binding:"required"`
	SourceID           uuid.UUID        `json:"source_id" binding:"required"`
	RecipientName      string           `json:"recipient_name" binding:"required,min=1,max=200"`
	RecipientEmail     string           `json:"recipient_email" binding:"required,email"`
	CurrencyCode       string           `json:"currency_code"`
	RegionalMultiplier *decimal.Decimal `json:"regional_multiplier"`
	ValidUntil         *time.Time       `json:"valid_until"`
	Notes              string           `json:"notes"`
	Terms              string           `json:"terms"`
	Items              []LineItemInput  `json:"items"`
}

// UpdateQuoteRequest represents a draft-only field update
type UpdateQuoteRequest struct {
	RegionalMultiplier *decimal.Decimal `json:"regional_multiplier"`
	Notes              *string          `json:"notes"`
	Terms              *string          `json:"terms"`
	ValidUntil         *time.Time       `json:"valid_until"`
}

// AcceptQuoteRequest carries the recipient's signature
type AcceptQuoteRequest struct {
	SignatureName  string `json:"signature_name" binding:"required,min=1,max=200"`
	SignatureEmail string `json:"signature_email" binding:"required,email"`
}

// DeclineQuoteRequest carries the decline reason
type DeclineQuoteRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ReviseQuoteRequest carries the revision reason
type ReviseQuoteRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// QuoteListFilter represents quote list query options
type QuoteListFilter struct {
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	Status         string `form:"status"`
	CustomerEmail  string `form:"customer_email"`
	OriginType     string `form:"origin_type"`
	SourceID       string `form:"source_id"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID                    uuid.UUID         `json:"id"`
	Kind                  string            `json:"kind"`
	Label                 string            `json:"label"`
	Quantity              decimal.Decimal   `json:"quantity"`
	UnitCost              decimal.Decimal   `json:"unit_cost"`
	ApplyRegionMultiplier bool              `json:"apply_region_multiplier"`
	Position              int               `json:"position"`
	Metadata              map[string]string `json:"metadata"`
	CalculatedTotal       decimal.Decimal   `json:"calculated_total"`
}

// TotalsResponse represents the monetary breakdown in API responses
type TotalsResponse struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Discount    decimal.Decimal `json:"discount"`
	Options     decimal.Decimal `json:"options"`
	Allowances  decimal.Decimal `json:"allowances"`
	Adjustments decimal.Decimal `json:"adjustments"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID                 uuid.UUID          `json:"id"`
	Reference          string             `json:"reference"`
	OriginType         string             `json:"origin_type"`
	SourceID           uuid.UUID          `json:"source_id"`
	Status             string             `json:"status"`
	CurrencyCode       string             `json:"currency_code"`
	RegionalMultiplier decimal.Decimal    `json:"regional_multiplier"`
	Totals             TotalsResponse     `json:"totals"`
	Version            int                `json:"version"`
	ParentQuoteID      *uuid.UUID         `json:"parent_quote_id,omitempty"`
	ValidUntil         *time.Time         `json:"valid_until,omitempty"`
	PreparedByName     string             `json:"prepared_by_name"`
	PreparedByEmail    string             `json:"prepared_by_email"`
	RecipientName      string             `json:"recipient_name"`
	RecipientEmail     string             `json:"recipient_email"`
	Notes              string             `json:"notes,omitempty"`
	Terms              string             `json:"terms,omitempty"`
	SignatureName      string             `json:"signature_name,omitempty"`
	SignatureEmail     string             `json:"signature_email,omitempty"`
	DeclineReason      string             `json:"decline_reason,omitempty"`
	Items              []LineItemResponse `json:"items"`
	SentAt             *time.Time         `json:"sent_at,omitempty"`
	ViewedAt           *time.Time         `json:"viewed_at,omitempty"`
	AcceptedAt         *time.Time         `json:"accepted_at,omitempty"`
	DeclinedAt         *time.Time         `json:"declined_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// ChangeLogEntryResponse represents a timeline entry in API responses
type ChangeLogEntryResponse struct {
	ID         uuid.UUID           `json:"id"`
	Action     string              `json:"action"`
	ActorName  string              `json:"actor_name"`
	ActorEmail string              `json:"actor_email"`
	Changes    []FieldChangeOutput `json:"changes"`
	Note       string              `json:"note,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// FieldChangeOutput represents one field diff in a timeline entry
type FieldChangeOutput struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// ROIResponse represents the return profile of a quote's total cost
type ROIResponse struct {
	QuoteID       uuid.UUID       `json:"quote_id"`
	CurrencyCode  string          `json:"currency_code"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	AnnualSavings decimal.Decimal `json:"annual_savings"`
	LifespanYears decimal.Decimal `json:"lifespan_years"`
	LifetimeValue decimal.Decimal `json:"lifetime_value"`
	NetReturn     decimal.Decimal `json:"net_return"`
	ROIPercent    decimal.Decimal `json:"roi_percent"`
	PaybackYears  decimal.Decimal `json:"payback_years"`
}

// ==================== Chat DTOs ====================

// PostMessageRequest represents a request to post a chat message
type PostMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=4000"`
}

// ReceiptResponse represents a read receipt in API responses
type ReceiptResponse struct {
	UserEmail string    `json:"user_email"`
	ReadAt    time.Time `json:"read_at"`
}

// MessageResponse represents a chat message in API responses
type MessageResponse struct {
	ID          uuid.UUID         `json:"id"`
	QuoteID     uuid.UUID         `json:"quote_id"`
	SenderName  string            `json:"sender_name"`
	SenderEmail string            `json:"sender_email"`
	Body        string            `json:"body"`
	Receipts    []ReceiptResponse `json:"receipts"`
	CreatedAt   time.Time         `json:"created_at"`
}

// UnreadCountResponse represents the unread message count for one user
type UnreadCountResponse struct {
	QuoteID uuid.UUID `json:"quote_id"`
	Unread  int64     `json:"unread"`
}

// ==================== Mappers ====================

// ToLineItemResponse converts a domain line item to a response DTO
func ToLineItemResponse(item *quote.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:                    item.ID,
		Kind:                  item.Kind.String(),
		Label:                 item.Label,
		Quantity:              item.Quantity,
		UnitCost:              item.UnitCost,
		ApplyRegionMultiplier: item.ApplyRegionMultiplier,
		Position:              item.Position,
		Metadata:              item.Metadata,
		CalculatedTotal:       item.CalculatedTotal,
	}
}

// ToQuoteResponse converts a domain quote to a response DTO
func ToQuoteResponse(q *quote.Quote) QuoteResponse {
	items := make([]LineItemResponse, 0, len(q.Items))
	for idx := range q.Items {
		items = append(items, ToLineItemResponse(&q.Items[idx]))
	}

	return QuoteResponse{
		ID:                 q.ID,
		Reference:          q.Reference,
		OriginType:         string(q.OriginType),
		SourceID:           q.SourceID,
		Status:             q.Status.String(),
		CurrencyCode:       string(q.CurrencyCode),
		RegionalMultiplier: q.RegionalMultiplier,
		Totals: TotalsResponse{
			Subtotal:    q.SubtotalAmount,
			Tax:         q.TaxAmount,
			Discount:    q.DiscountAmount,
			Options:     q.OptionsAmount,
			Allowances:  q.AllowancesAmount,
			Adjustments: q.AdjustmentsAmount,
			Total:       q.TotalAmount,
		},
		Version:         q.Version,
		ParentQuoteID:   q.ParentQuoteID,
		ValidUntil:      q.ValidUntil,
		PreparedByName:  q.PreparedByName,
		PreparedByEmail: q.PreparedByEmail,
		RecipientName:   q.RecipientName,
		RecipientEmail:  q.RecipientEmail,
		Notes:           q.Notes,
		Terms:           q.Terms,
		SignatureName:   q.SignatureName,
		SignatureEmail:  q.SignatureEmail,
		DeclineReason:   q.DeclineReason,
		Items:           items,
		SentAt:          q.SentAt,
		ViewedAt:        q.ViewedAt,
		AcceptedAt:      q.AcceptedAt,
		DeclinedAt:      q.DeclinedAt,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

// ToQuoteResponses converts a slice of quotes
func ToQuoteResponses(quotes []quote.Quote) []QuoteResponse {
	responses := make([]QuoteResponse, 0, len(quotes))
	for idx := range quotes {
		responses = append(responses, ToQuoteResponse(&quotes[idx]))
	}
	return responses
}

// ToChangeLogEntryResponse converts a change log entry to a response DTO
func ToChangeLogEntryResponse(entry *quote.ChangeLogEntry) ChangeLogEntryResponse {
	changes := make([]FieldChangeOutput, 0, len(entry.Changes))
	for _, c := range entry.Changes {
		changes = append(changes, FieldChangeOutput{
			Field:    c.Field,
			OldValue: c.OldValue,
			NewValue: c.NewValue,
		})
	}

	return ChangeLogEntryResponse{
		ID:         entry.ID,
		Action:     entry.Action.String(),
		ActorName:  entry.ActorName,
		ActorEmail: entry.ActorEmail,
		Changes:    changes,
		Note:       entry.Note,
		CreatedAt:  entry.CreatedAt,
	}
}

// ToChangeLogEntryResponses converts a slice of change log entries
func ToChangeLogEntryResponses(entries []quote.ChangeLogEntry) []ChangeLogEntryResponse {
	responses := make([]ChangeLogEntryResponse, 0, len(entries))
	for idx := range entries {
		responses = append(responses, ToChangeLogEntryResponse(&entries[idx]))
	}
	return responses
}

// ToROIResponse converts a domain ROI result to a response DTO
func ToROIResponse(q *quote.Quote, result quote.ROIResult) ROIResponse {
	return ROIResponse{
		QuoteID:       q.ID,
		CurrencyCode:  string(q.CurrencyCode),
		TotalCost:     result.TotalCost,
		AnnualSavings: result.AnnualSavings,
		LifespanYears: result.LifespanYears,
		LifetimeValue: result.LifetimeValue,
		NetReturn:     result.NetReturn,
		ROIPercent:    result.ROIPercent,
		PaybackYears:  result.PaybackYears,
	}
}

// ToMessageResponse converts a chat message to a response DTO
func ToMessageResponse(m *chat.Message) MessageResponse {
	receipts := make([]ReceiptResponse, 0, len(m.Receipts))
	for _, r := range m.Receipts {
		receipts = append(receipts, ReceiptResponse{
			UserEmail: r.UserEmail,
			ReadAt:    r.ReadAt,
		})
	}

	return MessageResponse{
		ID:          m.ID,
		QuoteID:     m.QuoteID,
		SenderName:  m.SenderName,
		SenderEmail: m.SenderEmail,
		Body:        m.Body,
		Receipts:    receipts,
		CreatedAt:   m.CreatedAt,
	}
}

// ToMessageResponses converts a slice of chat messages
func ToMessageResponses(messages []chat.Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for idx := range messages {
		responses = append(responses, ToMessageResponse(&messages[idx]))
	}
	return responses
}
