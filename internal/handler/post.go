package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/middleware"
	"github.com/iliyamo/social-network-api/internal/repository"
)

// PostHandler serves post CRUD. Reads are public (and cacheable); creation
// requires an access token.
type PostHandler struct {
	Posts *repository.PostRepo
}

func NewPostHandler(posts *repository.PostRepo) *PostHandler { return &PostHandler{Posts: posts} }

type createPostReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create inserts a post authored by the authenticated user.
func (h *PostHandler) Create(c echo.Context) error {
	u, _ := middleware.CurrentIdentity(c)
	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.Create(ctx, u.ID, req.Title, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns all posts, newest first.
func (h *PostHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Get returns one post by id.
func (h *PostHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
