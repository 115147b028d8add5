// Package router wires routes to handlers and declares, per route, which
// guards apply: token guard (access/refresh/basic), role guard, and the
// ownership guard on comment mutations. Guard order on every route is
// token -> role -> ownership; all must allow before the handler runs.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/auth"
	"github.com/iliyamo/social-network-api/internal/domain"
	"github.com/iliyamo/social-network-api/internal/handler"
	"github.com/iliyamo/social-network-api/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register is open (behind the
// rate limiter), login runs the Basic guard, and the two rotation endpoints
// run the Refresh guard: presenting an access token there fails before the
// handler is reached.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, secret string, users middleware.IdentityLoader, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register/email", a.Register)
	g.POST("/login/email", a.LoginEmail, middleware.BasicAuth())
	g.POST("/token/access", a.TokenAccess, middleware.BearerAuth(secret, auth.TokenRefresh, users))
	g.POST("/token/refresh", a.TokenRefresh, middleware.BearerAuth(secret, auth.TokenRefresh, users))

	e.GET("/v1/me", a.Me, middleware.BearerAuth(secret, auth.TokenAccess, users))
}

// RegisterUsers registers the user listing (admin only) and the follow-edge
// endpoints, all behind the access guard.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, secret string, users middleware.IdentityLoader) {
	g := e.Group("/v1/users", middleware.BearerAuth(secret, auth.TokenAccess, users))

	g.GET("", h.List, middleware.RequireRole(domain.RoleAdmin))
	g.GET("/follow/me", h.FollowMe)
	g.POST("/follow/:id", h.Follow)
	g.PATCH("/follow/:id/confirm", h.ConfirmFollow)
	g.DELETE("/follow/:id", h.Unfollow)
}

// RegisterPosts registers posts and their comments. Reads are public and may
// be wrapped by the response cache; comment mutations additionally run the
// ownership-or-admin guard.
func RegisterPosts(e *echo.Echo, posts *handler.PostHandler, comments *handler.CommentHandler,
	secret string, users middleware.IdentityLoader, ownership echo.MiddlewareFunc, cache echo.MiddlewareFunc) {

	access := middleware.BearerAuth(secret, auth.TokenAccess, users)

	pub := e.Group("/v1/posts")
	if cache != nil {
		pub.Use(cache)
	}
	pub.GET("", posts.List)
	pub.GET("/:id", posts.Get)
	pub.GET("/:postId/comments", comments.List)
	pub.GET("/:postId/comments/:commentId", comments.Get)

	e.POST("/v1/posts", posts.Create, access)
	e.POST("/v1/posts/:postId/comments", comments.Create, access)
	e.PATCH("/v1/posts/:postId/comments/:commentId", comments.Update, access, ownership)
	e.DELETE("/v1/posts/:postId/comments/:commentId", comments.Delete, access, ownership)
}
