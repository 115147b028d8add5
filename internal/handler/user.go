package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/middleware"
	"github.com/iliyamo/social-network-api/internal/queue"
	"github.com/iliyamo/social-network-api/internal/repository"
	"github.com/iliyamo/social-network-api/internal/service"
)

// UserHandler serves user listing and the follow-edge endpoints.
type UserHandler struct {
	Users   *repository.UserRepo
	Follows *repository.FollowRepo
	Svc     *service.FollowService
}

func NewUserHandler(users *repository.UserRepo, follows *repository.FollowRepo, svc *service.FollowService) *UserHandler {
	return &UserHandler{Users: users, Follows: follows, Svc: svc}
}

// List returns all users. The route is gated to ADMIN by the role guard.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// FollowMe lists who follows the authenticated user. Unconfirmed requests are
// included with ?includeNotConfirmed=true.
func (h *UserHandler) FollowMe(c echo.Context) error {
	u, _ := middleware.CurrentIdentity(c)
	include := false
	if v := c.QueryParam("includeNotConfirmed"); v != "" {
		include, _ = strconv.ParseBool(v)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	followers, err := h.Follows.ListFollowers(ctx, u.ID, include)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, followers)
}

// Follow creates an unconfirmed edge from the authenticated user to :id.
func (h *UserHandler) Follow(c echo.Context) error {
	u, _ := middleware.CurrentIdentity(c)
	followeeID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Request(ctx, u.ID, followeeID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true})
}

// ConfirmFollow confirms the edge from :id (the follower) to the
// authenticated user, incrementing both parties' counters atomically with the
// flag flip. A second confirm is rejected with 409 and moves no counters.
func (h *UserHandler) ConfirmFollow(c echo.Context) error {
	u, _ := middleware.CurrentIdentity(c)
	followerID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Confirm(ctx, followerID, u.ID); err != nil {
		return writeError(c, err)
	}
	// Fan-out after commit; a publish failure never fails the request.
	_ = queue.PublishFollowConfirmed(ctx, queue.FollowConfirmedEvent{
		FollowerID:  followerID,
		FolloweeID:  u.ID,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Unfollow deletes the edge from the authenticated user to :id, decrementing
// both counters when the edge had been confirmed.
func (h *UserHandler) Unfollow(c echo.Context) error {
	u, _ := middleware.CurrentIdentity(c)
	followeeID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Remove(ctx, u.ID, followeeID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
