package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/auth"
)

func TestBasicAuthAttachesCredentials(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Basic "+auth.EncodeBasic("a@x.com", "abcdefgh"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got BasicCredentials
	h := BasicAuth()(func(c echo.Context) error {
		creds, ok := CurrentCredentials(c)
		if !ok {
			t.Fatalf("credentials not attached")
		}
		got = creds
		// The Basic guard must not attach an identity; login has not
		// happened yet.
		if _, ok := CurrentIdentity(c); ok {
			t.Fatalf("identity attached before login")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if got.Email != "a@x.com" || got.Password != "abcdefgh" {
		t.Fatalf("credentials: %+v", got)
	}
}

func TestBasicAuthRejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"bearer scheme", "Bearer abc"},
		{"bad base64", "Basic !!!"},
		{"no separator", "Basic bm9jb2xv"}, // "nocolo"
	}
	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := BasicAuth()(func(c echo.Context) error {
			t.Fatalf("%s: handler reached", tc.name)
			return nil
		})
		if err := h(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: want 401, got %d", tc.name, rec.Code)
		}
	}
}
