package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appquote "github.com/quotedesk/backend/internal/application/quote"
)

// QuoteHandler handles quote lifecycle HTTP requests
type QuoteHandler struct {
	BaseHandler
	quoteService *appquote.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *appquote.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// parseUUIDParam parses a path parameter as a UUID, writing a 400 on failure
func (h *QuoteHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req appquote.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.quoteService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, response)
}

// List handles GET /quotes
func (h *QuoteHandler) List(c *gin.Context) {
	var filter appquote.QuoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.quoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListBySource handles GET /quotes/by-source
func (h *QuoteHandler) ListBySource(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Query("source_id"))
	if err != nil {
		h.BadRequest(c, "invalid source_id parameter")
		return
	}

	quotes, err := h.quoteService.ListBySource(c.Request.Context(), c.Query("origin_type"), sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotes)
}

// Get handles GET /quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.quoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// GetTimeline handles GET /quotes/:id/timeline
func (h *QuoteHandler) GetTimeline(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.quoteService.GetTimeline(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// EstimateROI handles GET /quotes/:id/roi
func (h *QuoteHandler) EstimateROI(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	annualSavings, err := decimal.NewFromString(c.Query("annual_savings"))
	if err != nil {
		h.BadRequest(c, "invalid annual_savings parameter")
		return
	}
	lifespanYears, err := decimal.NewFromString(c.Query("lifespan_years"))
	if err != nil {
		h.BadRequest(c, "invalid lifespan_years parameter")
		return
	}

	response, err := h.quoteService.EstimateROI(c.Request.Context(), id, annualSavings, lifespanYears)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Update handles PATCH /quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req appquote.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.quoteService.Update(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Delete handles DELETE /quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quoteService.Delete(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem handles POST /quotes/:id/items
func (h *QuoteHandler) AddItem(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input appquote.LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.quoteService.AddItem(c.Request.Context(), id, actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// UpdateItem handles PATCH /quotes/:id/items/:itemID
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseUUIDParam(c, "itemID")
	if !ok {
		return
	}

	var input appquote.LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.quoteService.UpdateItem(c.Request.Context(), id, itemID, actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// RemoveItem handles DELETE /quotes/:id/items/:itemID
func (h *QuoteHandler) RemoveItem(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseUUIDParam(c, "itemID")
	if !ok {
		return
	}

	response, err := h.quoteService.RemoveItem(c.Request.Context(), id, itemID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Send handles POST /quotes/:id/send
func (h *QuoteHandler) Send(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.quoteService.Send(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// MarkViewed handles POST /quotes/:id/view
func (h *QuoteHandler) MarkViewed(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.quoteService.MarkViewed(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Accept handles POST /quotes/:id/accept
func (h *QuoteHandler) Accept(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req appquote.AcceptQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.quoteService.Accept(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Decline handles POST /quotes/:id/decline
func (h *QuoteHandler) Decline(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req appquote.DeclineQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.quoteService.Decline(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Revise handles POST /quotes/:id/revise
func (h *QuoteHandler) Revise(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req appquote.ReviseQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.quoteService.Revise(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, response)
}
