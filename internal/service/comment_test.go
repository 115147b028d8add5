package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// fakeCommentStore keeps created comments in memory but only counts them as
// persisted once the surrounding scope commits, mirroring what rollback does
// to real rows.
type fakeCommentStore struct {
	nextID  uint64
	created []domain.Comment
	deleted []uint64
}

func (f *fakeCommentStore) CreateTx(ctx context.Context, tx *sql.Tx, postID, authorID uint64, content string) (domain.Comment, error) {
	f.nextID++
	c := domain.Comment{ID: f.nextID, PostID: postID, AuthorID: authorID, Content: content}
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCommentStore) DeleteTx(ctx context.Context, tx *sql.Tx, commentID uint64) error {
	f.deleted = append(f.deleted, commentID)
	return nil
}

type fakePostCounter struct {
	deltas map[uint64]int
	err    error
}

func (f *fakePostCounter) IncrementCommentCountTx(ctx context.Context, tx *sql.Tx, postID uint64, delta int) error {
	if f.err != nil {
		return f.err
	}
	if f.deltas == nil {
		f.deltas = map[uint64]int{}
	}
	f.deltas[postID] += delta
	return nil
}

func TestCommentCreateIncrementsCount(t *testing.T) {
	tx := &fakeTx{}
	comments := &fakeCommentStore{}
	posts := &fakePostCounter{}
	svc := NewCommentService(tx, comments, posts)

	c, err := svc.Create(context.Background(), 10, 3, "hello")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.PostID != 10 || c.AuthorID != 3 || c.Content != "hello" {
		t.Fatalf("unexpected comment %+v", c)
	}
	if posts.deltas[10] != 1 {
		t.Fatalf("comment_count delta: want +1, got %d", posts.deltas[10])
	}
	if !tx.committed {
		t.Fatalf("scope did not commit")
	}
}

// When the counter increment fails after the row insert succeeded, the whole
// scope rolls back: the caller sees no comment and an ErrTransactionFailed
// that still wraps the underlying cause.
func TestCommentCreateRollsBackOnCounterFailure(t *testing.T) {
	tx := &fakeTx{}
	comments := &fakeCommentStore{}
	cause := errors.New("deadlock victim")
	posts := &fakePostCounter{err: cause}
	svc := NewCommentService(tx, comments, posts)

	c, err := svc.Create(context.Background(), 10, 3, "hello")
	if err == nil {
		t.Fatalf("want error when counter update fails")
	}
	if !errors.Is(err, domain.ErrTransactionFailed) {
		t.Fatalf("want ErrTransactionFailed wrapper, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("underlying cause swallowed: %v", err)
	}
	if !tx.rolledBack {
		t.Fatalf("scope did not roll back")
	}
	if c.ID != 0 {
		t.Fatalf("caller must not receive a comment from a rolled-back scope, got %+v", c)
	}
}

func TestCommentDeleteDecrementsCount(t *testing.T) {
	tx := &fakeTx{}
	comments := &fakeCommentStore{}
	posts := &fakePostCounter{}
	svc := NewCommentService(tx, comments, posts)

	if err := svc.Delete(context.Background(), 10, 77); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(comments.deleted) != 1 || comments.deleted[0] != 77 {
		t.Fatalf("deleted rows: %v", comments.deleted)
	}
	if posts.deltas[10] != -1 {
		t.Fatalf("comment_count delta: want -1, got %d", posts.deltas[10])
	}
	if !tx.committed {
		t.Fatalf("scope did not commit")
	}
}
