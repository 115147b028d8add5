package domain

import "time"

// Post mirrors the 'posts' table. CommentCount is denormalized: it must always
// equal the number of live comment rows, so it is only ever changed in the
// same transaction as the comment row itself.
type Post struct {
	ID           uint64    `json:"id"`
	AuthorID     uint64    `json:"author_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	LikeCount    uint64    `json:"like_count"`
	CommentCount uint64    `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Comment mirrors the 'comments' table. Ownership for the comment-mutation
// guard is AuthorID == requester id.
type Comment struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"post_id"`
	AuthorID  uint64    `json:"author_id"`
	Content   string    `json:"content"`
	LikeCount uint64    `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
