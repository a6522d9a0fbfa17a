package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

const (
	// HeaderCorrelationID carries the id of the whole billing transaction,
	// which may span several provisioning requests.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the context key for storing the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates X-Correlation-ID, generating
// one when the caller did not send it.
func CorrelationID() gin.HandlerFunc {
	return idHeader{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		store: func(ctx context.Context, id string) context.Context {
			return logging.WithCorrelationID(ContextWithCorrelationID(ctx, id), id)
		},
	}.handler()
}

// GetCorrelationID extracts the correlation ID from the gin.Context.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
