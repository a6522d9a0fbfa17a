package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/adapters/http/dto"
)

const bearerPrefix = "Bearer "

// RequireToken returns middleware that requires "Authorization: Bearer <token>".
// An empty token disables the check.
func RequireToken(token string) gin.HandlerFunc {
	if token == "" {
		return func(c *gin.Context) { c.Next() }
	}

	want := []byte(token)

	return func(c *gin.Context) {
		got, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="provisioning"`)
			dto.AbortWithErrorCode(c, dto.ErrorCodeUnauthorized, "missing bearer token")
			return
		}

		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.Header("WWW-Authenticate", `Bearer realm="provisioning", error="invalid_token"`)
			dto.AbortWithErrorCode(c, dto.ErrorCodeUnauthorized, "invalid bearer token")
			return
		}

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	return token, token != ""
}
