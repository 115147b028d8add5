package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/domain"
)

type fakeOwnership struct {
	ownerByComment map[uint64]uint64
}

func (f *fakeOwnership) IsOwnedBy(ctx context.Context, resourceID, userID uint64) (bool, error) {
	return f.ownerByComment[resourceID] == userID, nil
}

func runOwnership(t *testing.T, identity *domain.User, commentID string, checker OwnershipChecker) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if commentID != "" {
		c.SetParamNames("commentId")
		c.SetParamValues(commentID)
	}
	if identity != nil {
		c.Set(identityKey, *identity)
	}
	h := CommentOwnerOrAdmin(checker)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestCommentOwnerOrAdmin(t *testing.T) {
	checker := &fakeOwnership{ownerByComment: map[uint64]uint64{5: 2}}
	admin := domain.User{ID: 1, Role: domain.RoleAdmin}
	owner := domain.User{ID: 2, Role: domain.RoleUser}
	other := domain.User{ID: 3, Role: domain.RoleUser}

	cases := []struct {
		name      string
		identity  *domain.User
		commentID string
		want      int
	}{
		{"no identity", nil, "5", http.StatusUnauthorized},
		{"admin bypasses ownership", &admin, "5", http.StatusOK},
		{"admin bypasses even without param", &admin, "", http.StatusOK},
		{"missing parameter", &owner, "", http.StatusBadRequest},
		{"bad parameter", &owner, "abc", http.StatusBadRequest},
		{"owner allowed", &owner, "5", http.StatusOK},
		{"non-owner forbidden", &other, "5", http.StatusForbidden},
	}
	for _, c := range cases {
		rec := runOwnership(t, c.identity, c.commentID, checker)
		if rec.Code != c.want {
			t.Fatalf("%s: want %d, got %d", c.name, c.want, rec.Code)
		}
	}
}
