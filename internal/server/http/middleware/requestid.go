package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDContextKey stores the request identifier inside gin context.
const RequestIDContextKey = "request_id"

// RequestIDHeader carries the request identifier on responses.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an identifier, honoring one supplied by
// the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDContextKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
