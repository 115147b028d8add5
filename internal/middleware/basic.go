package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/auth"
)

const credentialsKey = "basic_credentials"

// BasicCredentials is the decoded email:password pair the Basic guard
// attaches for the login handler. No identity is attached at this point:
// login has not happened yet.
type BasicCredentials struct {
	Email    string
	Password string
}

// CurrentCredentials returns the credentials the Basic guard attached.
func CurrentCredentials(c echo.Context) (BasicCredentials, bool) {
	creds, ok := c.Get(credentialsKey).(BasicCredentials)
	return creds, ok
}

// BasicAuth returns the guard for the login route. It requires the Basic
// scheme, decodes the base64 email:password payload and attaches it to the
// request context. Scheme and decode failures short-circuit with 401.
func BasicAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			encoded, err := auth.ExtractToken(header, false)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			email, password, err := auth.DecodeBasic(encoded)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			c.Set(credentialsKey, BasicCredentials{Email: email, Password: password})
			return next(c)
		}
	}
}
