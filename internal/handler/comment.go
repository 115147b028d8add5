package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/middleware"
	"github.com/iliyamo/social-network-api/internal/queue"
	"github.com/iliyamo/social-network-api/internal/repository"
	"github.com/iliyamo/social-network-api/internal/service"
)

// CommentHandler serves the comment endpoints under /posts/:postId/comments.
// Create and Delete go through the CommentService so the post's comment_count
// moves in the same transaction as the comment row.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Svc      *service.CommentService
}

func NewCommentHandler(comments *repository.CommentRepo, svc *service.CommentService) *CommentHandler {
	return &CommentHandler{Comments: comments, Svc: svc}
}

type commentReq struct {
	Content string `json:"content"`
}

// Create inserts a comment and bumps the post's counter atomically.
func (h *CommentHandler) Create(c echo.Context) error {
	u, _ := middleware.CurrentIdentity(c)
	postID, err := parseID(c, "postId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comment, err := h.Svc.Create(ctx, postID, u.ID, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	_ = queue.PublishCommentCreated(ctx, queue.CommentCreatedEvent{
		CommentID: comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt.UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, comment)
}

// List returns a post's comments.
func (h *CommentHandler) List(c echo.Context) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// Get returns one comment.
func (h *CommentHandler) Get(c echo.Context) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comment, err := h.Comments.GetByID(ctx, commentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// Update rewrites a comment's content. The ownership-or-admin guard has
// already decided access.
func (h *CommentHandler) Update(c echo.Context) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comment, err := h.Comments.Update(ctx, commentID, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete removes a comment and decrements the post's counter atomically.
func (h *CommentHandler) Delete(c echo.Context) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, postID, commentID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
