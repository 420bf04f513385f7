package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the quote lifecycle endpoints
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.Create)
		quotes.GET("", h.List)
		quotes.GET("/by-source", h.ListBySource)
		quotes.GET("/:id", h.Get)
		quotes.PATCH("/:id", h.Update)
		quotes.DELETE("/:id", h.Delete)
		quotes.GET("/:id/timeline", h.GetTimeline)
		quotes.GET("/:id/roi", h.EstimateROI)

		quotes.POST("/:id/items", h.AddItem)
		quotes.PATCH("/:id/items/:itemID", h.UpdateItem)
		quotes.DELETE("/:id/items/:itemID", h.RemoveItem)

		quotes.POST("/:id/send", h.Send)
		quotes.POST("/:id/view", h.MarkViewed)
		quotes.POST("/:id/accept", h.Accept)
		quotes.POST("/:id/decline", h.Decline)
		quotes.POST("/:id/revise", h.Revise)
	}
}

// RegisterRoutes mounts the per-quote chat endpoints
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	messages := rg.Group("/quotes/:id/messages")
	{
		messages.POST("", h.PostMessage)
		messages.GET("", h.ListMessages)
		messages.POST("/:messageID/read", h.MarkRead)
		messages.GET("/unread-count", h.UnreadCount)
	}
}

// RegisterRoutes mounts the SSE stream endpoints
func (h *StreamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quotes/:id/messages/stream", h.QuoteStream)
	rg.GET("/leads/stream", h.LeadStream)
}

// RegisterRoutes mounts the health and readiness probes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}
