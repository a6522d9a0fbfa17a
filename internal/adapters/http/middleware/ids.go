package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// maxIDLength caps caller-supplied ids. They are forwarded to every vendor
// as request headers.
const maxIDLength = 128

// RequestIDFromContext returns the request id stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation id stored by CorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationIDKey)
}

// ContextWithRequestID stores a request id for the vendor clients.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores a correlation id for the vendor clients.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func idFrom(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}

// idHeader reads one tracing id header, replacing a missing or unusable
// value with a fresh UUID.
type idHeader struct {
	header string
	ginKey string
	store  func(ctx context.Context, id string) context.Context
}

func (h idHeader) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(h.header)
		if !usableID(id) {
			id = uuid.NewString()
		}

		c.Set(h.ginKey, id)
		c.Header(h.header, id)
		c.Request = c.Request.WithContext(h.store(c.Request.Context(), id))

		c.Next()
	}
}

// usableID reports whether id is short printable ASCII without spaces.
func usableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}

	return true
}
