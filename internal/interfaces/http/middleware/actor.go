package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// Actor identification headers. Every mutating endpoint requires the
// caller to say who they are; authorization against the quote's
// participant pair happens in the application layer.
const (
	ActorNameHeader  = "X-Actor-Name"
	ActorEmailHeader = "X-Actor-Email"

	actorContextKey = "actor"
)

// Actor extracts the acting user from the request headers and stores it
// in the gin context. Requests without an actor email still pass; the
// handlers decide which operations demand one.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(ActorEmailHeader))
		if email != "" {
			c.Set(actorContextKey, shared.NewActor(
				strings.TrimSpace(c.GetHeader(ActorNameHeader)),
				email,
			))
		}
		c.Next()
	}
}

// GetActor returns the acting user from the gin context. The second
// return is false when the request carried no actor email.
func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	return actor, ok
}
