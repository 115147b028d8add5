package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/auth"
	"github.com/iliyamo/social-network-api/internal/domain"
)

// Context keys the guards attach request-scoped values under.
const (
	identityKey = "identity"
	rawTokenKey = "raw_token"
)

// IdentityLoader resolves the full identity behind a verified token payload.
type IdentityLoader interface {
	GetByID(ctx context.Context, id uint64) (domain.User, error)
}

// CurrentIdentity returns the identity a bearer guard attached to the
// request, if any. Handlers behind an access or refresh guard can rely on the
// second return being true.
func CurrentIdentity(c echo.Context) (domain.User, bool) {
	u, ok := c.Get(identityKey).(domain.User)
	return u, ok
}

// RawToken returns the bearer token string the guard verified, for the
// rotation handlers which re-verify it when minting the replacement.
func RawToken(c echo.Context) string {
	s, _ := c.Get(rawTokenKey).(string)
	return s
}

// BearerAuth returns a guard that requires a Bearer token of the given type,
// verifies it against the secret, loads the full identity by the payload's
// subject and attaches it to the request context. Access-protected routes use
// want=TokenAccess; the two rotation routes use want=TokenRefresh. Every
// failure short-circuits with 401 before the handler runs.
func BearerAuth(secret string, want auth.TokenType, users IdentityLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": domain.ErrUnauthenticated.Error()})
			}
			raw, err := auth.ExtractToken(header, true)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			payload, err := auth.VerifyToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			if payload.Type != want {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": domain.ErrWrongTokenType.Error()})
			}

			u, err := users.GetByID(c.Request().Context(), payload.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": domain.ErrTokenInvalid.Error()})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load identity failed"})
			}

			c.Set(identityKey, u)
			c.Set(rawTokenKey, raw)
			c.Set("user_id", u.ID)
			c.Set("role", string(u.Role))
			return next(c)
		}
	}
}
