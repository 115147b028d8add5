// Package handler implements the HTTP endpoints. Handlers bind DTOs, call
// repositories or services, and translate the domain error taxonomy into
// HTTP statuses in one place.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// writeError maps a domain error to its HTTP status and writes the standard
// error body. Unknown errors become 500 without leaking internals;
// ErrTransactionFailed is reported explicitly since a rolled-back multi-row
// write must never look like success.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrMalformedCredential),
		errors.Is(err, domain.ErrInvalidScheme),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrWrongTokenType),
		errors.Is(err, domain.ErrCredentialRejected),
		errors.Is(err, domain.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientRole),
		errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrMissingParameter):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateIdentity),
		errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrTransactionFailed):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
