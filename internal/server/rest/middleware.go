package rest

import (
	"errors"
	"strings"
	"time"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/auth"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	identityKey  = "identity"
	requestIDKey = "request_id"
)

// TokenVerifier decodes a bearer token into the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

// RequireRoles admits a request iff it carries a valid bearer token whose role
// is one of allowed. The decoded identity is stored in the gin context and in
// the request context (see auth.IdentityFromContext).
func RequireRoles(tokens TokenVerifier, l logging.Logger, allowed ...models.Role) gin.HandlerFunc {
	permitted := make(map[models.Role]bool, len(models.Roles))
	for _, r := range allowed {
		permitted[r] = true
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			abortWithError(c, common.ErrorUnauthorized)
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			l.Warn(c.Request.Context(), "token rejected", "path", c.Request.URL.Path, "error", err)
			abortWithError(c, err)
			return
		}

		if !roleAllowed(identity.Role, permitted) {
			l.Warn(c.Request.Context(), "role rejected", "username", identity.Username, "role", identity.Role, "path", c.Request.URL.Path)
			abortWithError(c, common.ErrorForbidden)
			return
		}

		c.Set(identityKey, identity)
		c.Request = c.Request.WithContext(auth.ContextWithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func roleAllowed(role models.Role, permitted map[models.Role]bool) bool {
	switch role {
	case models.RoleUser, models.RoleModerator, models.RoleAdmin:
		return permitted[role]
	default:
		return false
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != common.BearerScheme || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// CurrentIdentity returns the identity admitted by RequireRoles.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

func accessLog(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		}
		if identity, ok := CurrentIdentity(c); ok {
			args = append(args, "username", identity.Username)
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			l.Error(ctx, "request", args...)
		case status >= 400:
			l.Warn(ctx, "request", args...)
		default:
			l.Info(ctx, "request", args...)
		}
	}
}

func recovery(l logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		l.Error(c.Request.Context(), "panic recovered", "panic", rec, "path", c.Request.URL.Path, "request_id", c.GetString(requestIDKey))
		abortWithError(c, errors.New("panic"))
	})
}
