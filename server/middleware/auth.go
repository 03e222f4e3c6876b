package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/streamhub/auth"
	"github.com/kbukum/streamhub/auth/authctx"
	apperrors "github.com/kbukum/streamhub/errors"
)

// Auth returns a Gin middleware that validates Bearer tokens with v.
// Validated claims are stored in the request context (see authctx.Get).
// Apply it per route group; it protects every route it is attached to.
func Auth(v auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, apperrors.Unauthorized("Authorization header required."))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, apperrors.Unauthorized("Invalid authorization header format."))
			return
		}

		claims, err := v.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, apperrors.InvalidToken().WithCause(err))
			return
		}

		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, appErr *apperrors.AppError) {
	c.Header("WWW-Authenticate", `Bearer realm="streamhub"`)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
