package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appquote "github.com/quotedesk/backend/internal/application/quote"
)

// ChatHandler handles per-quote chat HTTP requests
type ChatHandler struct {
	BaseHandler
	chatService *appquote.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *appquote.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

// PostMessage handles POST /quotes/:id/messages
func (h *ChatHandler) PostMessage(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	quoteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req appquote.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.chatService.PostMessage(c.Request.Context(), quoteID, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, response)
}

// ListMessages handles GET /quotes/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	quoteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	page, err := h.chatService.ListMessages(c.Request.Context(), quoteID, actor, pageNum, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// MarkRead handles POST /quotes/:id/messages/:messageID/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	quoteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	messageID, ok := h.parseUUIDParam(c, "messageID")
	if !ok {
		return
	}

	receipt, err := h.chatService.MarkRead(c.Request.Context(), quoteID, messageID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// UnreadCount handles GET /quotes/:id/messages/unread-count
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	quoteID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	count, err := h.chatService.UnreadCount(c.Request.Context(), quoteID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}
