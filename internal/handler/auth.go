package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/auth"
	"github.com/iliyamo/social-network-api/internal/middleware"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(a *auth.Service) *AuthHandler { return &AuthHandler{Auth: a} }

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type authResp struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates the identity and returns a token pair immediately, so a
// fresh registration is already logged in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Nickname = strings.TrimSpace(req.Nickname)
	if req.Email == "" || req.Password == "" || req.Nickname == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/nickname required"})
	}
	if len(req.Password) < 2 || len(req.Password) > 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be 2-8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, pair, err := h.Auth.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, authResp{
		UserID:       u.ID,
		Email:        u.Email,
		Nickname:     u.Nickname,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// LoginEmail exchanges the Basic credential the guard decoded for a token
// pair. The guard has already attached the email/password pair; login itself
// happens here.
func (h *AuthHandler) LoginEmail(c echo.Context) error {
	creds, ok := middleware.CurrentCredentials(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, pair, err := h.Auth.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		UserID:       u.ID,
		Email:        u.Email,
		Nickname:     u.Nickname,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// TokenAccess mints a new access token from the refresh token the guard
// verified. The presented refresh token stays valid until its own expiry.
func (h *AuthHandler) TokenAccess(c echo.Context) error {
	token, err := h.Auth.Rotate(middleware.RawToken(c), false)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"accessToken": token})
}

// TokenRefresh mints a new refresh token from the presented refresh token.
func (h *AuthHandler) TokenRefresh(c echo.Context) error {
	token, err := h.Auth.Rotate(middleware.RawToken(c), true)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"refreshToken": token})
}

// Me returns the identity the access guard attached.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	return c.JSON(http.StatusOK, u)
}
