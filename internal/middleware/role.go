package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// RequireRole returns a guard enforcing that the attached identity holds
// exactly the required role. Routes that declare no role pass an empty string
// and the guard allows unconditionally. The comparison is equality, not
// at-least: with only USER and ADMIN in play this amounts to admin-only
// gating. Must run after a bearer guard.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if required == "" {
				return next(c)
			}
			u, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": domain.ErrUnauthenticated.Error()})
			}
			if u.Role != required {
				return c.JSON(http.StatusForbidden, echo.Map{"error": domain.ErrInsufficientRole.Error()})
			}
			return next(c)
		}
	}
}
