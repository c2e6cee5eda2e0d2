package middleware

import (
	"crypto/subtle"
	stdErrors "errors"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/errors"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notetaker/pkg/jwt"
)

// Echo context keys set by the middlewares below
const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
	ContextAPIKey = "api_key"
)

// Request headers read by the middlewares below
const (
	HeaderAPIKey       = "X-Api-Key"
	HeaderExportSecret = "X-Export-Secret"
)

// EchoAuth returns an Echo middleware that validates the bearer JWT and sets
// "user_id" (uuid.UUID) and "claims" (*jwt.Claims) into Echo context
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return errors.ErrUnauthenticated()
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				if stdErrors.Is(err, gojwt.ErrTokenExpired) {
					return errors.ErrTokenExpired()
				}
				return errors.ErrInvalidToken()
			}

			userID, err := claims.UserID()
			if err != nil {
				return errors.ErrInvalidToken()
			}

			c.Set(ContextClaims, claims)
			c.Set(ContextUserID, userID)

			return next(c)
		}
	}
}

// RequireRole checks if the authenticated user has one of the roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := GetClaims(c)
			if !ok {
				return errors.ErrUnauthenticated()
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return errors.ErrForbidden("insufficient role")
		}
	}
}

// APIKeyAuth authenticates machine clients by the sha256 of the X-Api-Key header
func APIKeyAuth(repo repositories.APIKeyRepository, permission string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderAPIKey))
			if raw == "" {
				return errors.ErrInvalidAPIKey()
			}

			ctx := c.Request().Context()
			key, err := repo.FindByHash(ctx, jwt.HashToken(raw))
			if err != nil {
				return errors.ErrDBQueryFailed("find api key", err)
			}
			if key == nil {
				return errors.ErrInvalidAPIKey()
			}

			now := time.Now().UTC()
			if !key.IsActive || key.IsExpired(now) {
				return errors.ErrInvalidAPIKey()
			}
			if !key.HasPermission(permission) {
				return errors.ErrInsufficientPermission(permission)
			}

			if err := repo.TouchLastUsed(ctx, key.ID, now); err != nil && logger != nil {
				logger.Warn("failed to update api key last_used_at",
					zap.String("api_key_id", key.ID.String()),
					zap.Error(err),
				)
			}

			c.Set(ContextAPIKey, key)
			return next(c)
		}
	}
}

// ExportSecret guards the transcript export endpoints with a shared secret
func ExportSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(HeaderExportSecret)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return errors.ErrInvalidExportSecret()
			}
			return next(c)
		}
	}
}

// GetUserID returns the authenticated user's id
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextUserID).(uuid.UUID)
	return id, ok
}

// GetClaims returns the validated token claims
func GetClaims(c echo.Context) (*jwt.Claims, bool) {
	claims, ok := c.Get(ContextClaims).(*jwt.Claims)
	return claims, ok
}

// GetAPIKey returns the key that authenticated the request
func GetAPIKey(c echo.Context) (*entities.APIKey, bool) {
	key, ok := c.Get(ContextAPIKey).(*entities.APIKey)
	return key, ok
}

func extractToken(c echo.Context) string {
	// Try Authorization header first
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// Try cookie as fallback
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}
