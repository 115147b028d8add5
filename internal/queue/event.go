// Package queue defines the message payloads exchanged over the broker and
// the background consumer that turns them into the activity log.
package queue

// FollowConfirmedEvent is published after a follow confirmation commits. It
// carries both parties so downstream consumers can notify or aggregate
// without querying the primary database.
type FollowConfirmedEvent struct {
	FollowerID  uint64 `json:"follower_id"`
	FolloweeID  uint64 `json:"followee_id"`
	ConfirmedAt string `json:"confirmed_at"`
}

// CommentCreatedEvent is published after a comment create commits.
type CommentCreatedEvent struct {
	CommentID uint64 `json:"comment_id"`
	PostID    uint64 `json:"post_id"`
	AuthorID  uint64 `json:"author_id"`
	CreatedAt string `json:"created_at"`
}
