package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// OwnershipChecker answers whether a resource belongs to a user. One indexed
// storage read per request; the guard only runs on mutation routes.
type OwnershipChecker interface {
	IsOwnedBy(ctx context.Context, resourceID, userID uint64) (bool, error)
}

// CommentOwnerOrAdmin returns the guard for comment edit/delete routes.
// Decision order: no attached identity -> 401; admin -> allow; missing
// :commentId parameter -> 400; then the ownership lookup decides allow or
// 403. Runs after the access guard and the role guard.
func CommentOwnerOrAdmin(comments OwnershipChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": domain.ErrUnauthenticated.Error()})
			}
			if u.Role == domain.RoleAdmin {
				return next(c)
			}
			param := c.Param("commentId")
			if param == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": domain.ErrMissingParameter.Error()})
			}
			commentID, err := strconv.ParseUint(param, 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
			}
			owned, err := comments.IsOwnedBy(c.Request().Context(), commentID, u.ID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ownership lookup failed"})
			}
			if !owned {
				return c.JSON(http.StatusForbidden, echo.Map{"error": domain.ErrForbidden.Error()})
			}
			return next(c)
		}
	}
}
