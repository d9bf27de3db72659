package middleware

import (
	"admin_console/pkg/requestid"

	"github.com/gin-gonic/gin"
)

// RequestID tags every request with an id, reusing the caller's header
// when present. The id travels in the request context so the API client
// can forward it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" {
			id = requestid.New()
		}
		c.Writer.Header().Set(requestid.Header, id)
		c.Request = c.Request.WithContext(requestid.WithContext(c.Request.Context(), id))
		c.Next()
	}
}
