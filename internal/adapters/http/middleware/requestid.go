// Package middleware provides the Gin middleware of the provisioning API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the context key for storing the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestID returns middleware that reads X-Request-ID or generates a UUID.
// The id is echoed in the response, added to the context logger and
// forwarded on every vendor call made while serving the request.
func RequestID() gin.HandlerFunc {
	return idHeader{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		store: func(ctx context.Context, id string) context.Context {
			return logging.WithRequestID(ContextWithRequestID(ctx, id), id)
		},
	}.handler()
}

// GetRequestID extracts the request ID from the gin.Context.
// Returns empty string if not set.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
