package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appquote "github.com/quotedesk/backend/internal/application/quote"
	"github.com/quotedesk/backend/internal/infrastructure/realtime"
	"github.com/quotedesk/backend/internal/interfaces/http/dto"
)

// StreamHandler serves Server-Sent Events for quote chat rooms and the
// live lead feed
type StreamHandler struct {
	BaseHandler
	hub          *realtime.Hub
	quoteService *appquote.QuoteService
	logger       *zap.Logger
	heartbeat    time.Duration
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(hub *realtime.Hub, quoteService *appquote.QuoteService, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		hub:          hub,
		quoteService: quoteService,
		logger:       logger,
		heartbeat:    30 * time.Second,
	}
}

// QuoteStream handles GET /quotes/:id/messages/stream. Only the quote's
// two participants may attach.
func (h *StreamHandler) QuoteStream(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid id parameter")
		return
	}

	q, err := h.quoteService.GetByID(c.Request.Context(), quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !strings.EqualFold(actor.Email, q.PreparedByEmail) && !strings.EqualFold(actor.Email, q.RecipientEmail) {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "not a participant of this quote")
		return
	}

	h.stream(c, appquote.QuoteRoom(quoteID.String()))
}

// LeadStream handles GET /leads/stream
func (h *StreamHandler) LeadStream(c *gin.Context) {
	if _, ok := h.requireActor(c); !ok {
		return
	}
	h.stream(c, appquote.LeadsRoom)
}

// stream attaches the caller to a room and relays events until the
// client disconnects
func (h *StreamHandler) stream(c *gin.Context, room string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	sub := h.hub.Subscribe(room)
	defer h.hub.Unsubscribe(sub)

	h.logger.Info("SSE client connected",
		zap.String("room", room),
		zap.String("subscriber_id", sub.ID.String()),
	)

	sendEvent(c.Writer, "connected", fmt.Sprintf(`{"room":%q,"timestamp":%d}`, room, time.Now().Unix()))
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("SSE client disconnected",
				zap.String("room", room),
				zap.String("subscriber_id", sub.ID.String()),
			)
			return
		case <-ticker.C:
			sendEvent(c.Writer, "heartbeat", fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()))
			c.Writer.Flush()
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Payload)
			if err != nil {
				h.logger.Warn("failed to encode SSE payload",
					zap.String("room", room), zap.Error(err))
				continue
			}
			sendEvent(c.Writer, "message", string(data))
			c.Writer.Flush()
		}
	}
}

// sendEvent writes one SSE event to the response writer
func sendEvent(w io.Writer, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", data)
}
