package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// CommentStore is the slice of the comment repository the service needs.
type CommentStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, postID, authorID uint64, content string) (domain.Comment, error)
	DeleteTx(ctx context.Context, tx *sql.Tx, commentID uint64) error
}

// PostCounterStore adjusts a post's denormalized comment_count inside an open
// scope.
type PostCounterStore interface {
	IncrementCommentCountTx(ctx context.Context, tx *sql.Tx, postID uint64, delta int) error
}

// CommentService pairs every comment row mutation with the owning post's
// comment_count update in one transaction, so the counter always equals the
// number of live comment rows.
type CommentService struct {
	tx       TxManager
	comments CommentStore
	posts    PostCounterStore
}

func NewCommentService(tx TxManager, comments CommentStore, posts PostCounterStore) *CommentService {
	return &CommentService{tx: tx, comments: comments, posts: posts}
}

// Create inserts the comment and increments the post's comment_count. If the
// increment fails after the insert succeeded, the insert is rolled back too.
func (s *CommentService) Create(ctx context.Context, postID, authorID uint64, content string) (domain.Comment, error) {
	var created domain.Comment
	err := s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		c, err := s.comments.CreateTx(ctx, tx, postID, authorID, content)
		if err != nil {
			return err
		}
		created = c
		return s.posts.IncrementCommentCountTx(ctx, tx, postID, 1)
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return created, nil
}

// Delete removes the comment and decrements the post's comment_count,
// all-or-nothing.
func (s *CommentService) Delete(ctx context.Context, postID, commentID uint64) error {
	return s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.comments.DeleteTx(ctx, tx, commentID); err != nil {
			return err
		}
		return s.posts.IncrementCommentCountTx(ctx, tx, postID, -1)
	})
}
