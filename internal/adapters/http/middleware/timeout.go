package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/platform/logging"
)

// Timeout returns middleware that bounds the request context. Vendor calls
// observe the deadline and fail with a connection error once it passes; the
// handler still writes the response.
func Timeout(timeout time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logging.FromContextOr(ctx, logger).WarnContext(ctx, "request deadline exceeded",
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.Duration("timeout", timeout),
			)
		}
	}
}
