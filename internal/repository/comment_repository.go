package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// CommentRepo mirrors the 'comments' table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "id,post_id,author_id,content,like_count,created_at,updated_at"

// CreateTx inserts a comment within an open transaction so it commits or
// rolls back together with the post's comment_count increment.
func (r *CommentRepo) CreateTx(ctx context.Context, tx *sql.Tx, postID, authorID uint64, content string) (domain.Comment, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO comments (post_id, author_id, content) VALUES (?,?,?)",
		postID, authorID, content)
	if err != nil {
		return domain.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Comment{}, err
	}
	var c domain.Comment
	err = tx.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=?", id).
		Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.LikeCount, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// DeleteTx removes a comment within an open transaction; a missing row is
// domain.ErrNotFound.
func (r *CommentRepo) DeleteTx(ctx context.Context, tx *sql.Tx, commentID uint64) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE id=?", commentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (domain.Comment, error) {
	var c domain.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.LikeCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, err
}

// ListByPost returns a post's comments, oldest first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID uint64) ([]domain.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE post_id=? ORDER BY id ASC", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.LikeCount,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Update rewrites a comment's content. Ownership is enforced by the guard on
// the route, not here.
func (r *CommentRepo) Update(ctx context.Context, commentID uint64, content string) (domain.Comment, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET content=? WHERE id=?", content, commentID); err != nil {
		return domain.Comment{}, err
	}
	// RowsAffected is 0 both for a missing row and for unchanged content, so
	// re-read instead: GetByID reports ErrNotFound for the former.
	return r.GetByID(ctx, commentID)
}

// IsOwnedBy reports whether the comment was written by userID. One indexed
// read; it only runs on mutation routes.
func (r *CommentRepo) IsOwnedBy(ctx context.Context, commentID, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM comments WHERE id=? AND author_id=? LIMIT 1",
		commentID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
