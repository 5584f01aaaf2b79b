package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting staff member's ID.
const actorIDKey = contextKey("actorID")

// actorHeader is set by the session layer in front of this service.
// Authentication itself is an external collaborator.
const actorHeader = "X-Staff-ID"

// ActorIdentityMiddleware copies the staff identity asserted by the upstream
// session layer into the request context. Requests without an identity are
// rejected: every mutating operation needs a poster/processor for the audit
// trail.
func ActorIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(actorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "missing staff identity"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting staff ID from the context.
// It returns the ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorID, ok := c.Request.Context().Value(actorIDKey).(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}
