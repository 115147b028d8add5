package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/domain"
)

func runWithIdentity(t *testing.T, identity *domain.User, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(identityKey, *identity)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRequireRole(t *testing.T) {
	admin := domain.User{ID: 1, Role: domain.RoleAdmin}
	user := domain.User{ID: 2, Role: domain.RoleUser}

	cases := []struct {
		name     string
		required domain.Role
		identity *domain.User
		want     int
	}{
		{"no declared role allows anyone", "", &user, http.StatusOK},
		{"no declared role allows anonymous", "", nil, http.StatusOK},
		{"exact match allows", domain.RoleAdmin, &admin, http.StatusOK},
		{"mismatch forbidden", domain.RoleAdmin, &user, http.StatusForbidden},
		{"no identity unauthorized", domain.RoleAdmin, nil, http.StatusUnauthorized},
	}
	for _, c := range cases {
		rec := runWithIdentity(t, c.identity, RequireRole(c.required))
		if rec.Code != c.want {
			t.Fatalf("%s: want %d, got %d", c.name, c.want, rec.Code)
		}
	}
}
