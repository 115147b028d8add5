package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// PostRepo mirrors the 'posts' table.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "id,author_id,title,content,like_count,comment_count,created_at,updated_at"

// Create inserts a post and reads the full row back so defaults and
// timestamps are populated.
func (r *PostRepo) Create(ctx context.Context, authorID uint64, title, content string) (domain.Post, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (author_id, title, content) VALUES (?,?,?)",
		authorID, title, content)
	if err != nil {
		return domain.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Post{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a post by id.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (domain.Post, error) {
	var p domain.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.LikeCount, &p.CommentCount,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Post{}, domain.ErrNotFound
	}
	return p, err
}

// List returns posts newest first.
func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.LikeCount,
			&p.CommentCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// IncrementCommentCountTx adjusts the denormalized comment counter inside the
// same transaction that creates or deletes the comment row. Must never be
// called outside that scope.
func (r *PostRepo) IncrementCommentCountTx(ctx context.Context, tx *sql.Tx, postID uint64, delta int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE posts SET comment_count = comment_count + ? WHERE id = ?", delta, postID)
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
