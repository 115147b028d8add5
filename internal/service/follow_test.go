package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// fakeTx runs the callback without a real database and records whether the
// scope committed or rolled back.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := fn(nil); err != nil {
		f.rolledBack = true
		return errors.Join(domain.ErrTransactionFailed, err)
	}
	f.committed = true
	return nil
}

type fakeFollowStore struct {
	createFn  func(followerID, followeeID uint64) error
	confirmFn func(followerID, followeeID uint64) error
	deleteFn  func(followerID, followeeID uint64) (bool, error)
}

func (f *fakeFollowStore) Create(ctx context.Context, followerID, followeeID uint64) error {
	if f.createFn != nil {
		return f.createFn(followerID, followeeID)
	}
	return nil
}

func (f *fakeFollowStore) ConfirmTx(ctx context.Context, tx *sql.Tx, followerID, followeeID uint64) error {
	if f.confirmFn != nil {
		return f.confirmFn(followerID, followeeID)
	}
	return nil
}

func (f *fakeFollowStore) DeleteTx(ctx context.Context, tx *sql.Tx, followerID, followeeID uint64) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(followerID, followeeID)
	}
	return true, nil
}

// counterCall records one counter adjustment.
type counterCall struct {
	userID uint64
	field  domain.CounterField
	delta  int
}

type fakeCounterStore struct {
	calls []counterCall
	errOn int // 1-based call index to fail at; 0 = never
}

func (f *fakeCounterStore) IncrementCounterTx(ctx context.Context, tx *sql.Tx, userID uint64, field domain.CounterField, delta int) error {
	if f.errOn > 0 && len(f.calls)+1 == f.errOn {
		return errors.New("counter update failed")
	}
	f.calls = append(f.calls, counterCall{userID: userID, field: field, delta: delta})
	return nil
}

func TestConfirmIncrementsBothCountersOnce(t *testing.T) {
	tx := &fakeTx{}
	counters := &fakeCounterStore{}
	svc := NewFollowService(tx, &fakeFollowStore{}, counters)

	if err := svc.Confirm(context.Background(), 1, 2); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !tx.committed {
		t.Fatalf("scope did not commit")
	}
	want := []counterCall{
		{userID: 2, field: domain.FollowerCount, delta: 1},
		{userID: 1, field: domain.FolloweeCount, delta: 1},
	}
	if len(counters.calls) != len(want) {
		t.Fatalf("want %d counter calls, got %d", len(want), len(counters.calls))
	}
	for i, w := range want {
		if counters.calls[i] != w {
			t.Fatalf("call %d: want %+v, got %+v", i, w, counters.calls[i])
		}
	}
}

// The confirmation flag gates the counters: a second confirm fails inside the
// scope before any counter moves, so nothing is double-incremented.
func TestConfirmTwiceDoesNotDoubleIncrement(t *testing.T) {
	tx := &fakeTx{}
	counters := &fakeCounterStore{}
	confirmed := false
	follows := &fakeFollowStore{
		confirmFn: func(followerID, followeeID uint64) error {
			if confirmed {
				return domain.ErrConflict
			}
			confirmed = true
			return nil
		},
	}
	svc := NewFollowService(tx, follows, counters)
	ctx := context.Background()

	if err := svc.Confirm(ctx, 1, 2); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	err := svc.Confirm(ctx, 1, 2)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second confirm: want ErrConflict, got %v", err)
	}
	if len(counters.calls) != 2 {
		t.Fatalf("counters moved %d times, want 2 (one confirm only)", len(counters.calls))
	}
}

func TestConfirmRollsBackWhenCounterFails(t *testing.T) {
	tx := &fakeTx{}
	counters := &fakeCounterStore{errOn: 2}
	svc := NewFollowService(tx, &fakeFollowStore{}, counters)

	err := svc.Confirm(context.Background(), 1, 2)
	if err == nil {
		t.Fatalf("want error when second counter update fails")
	}
	if !errors.Is(err, domain.ErrTransactionFailed) {
		t.Fatalf("want ErrTransactionFailed wrapper, got %v", err)
	}
	if !tx.rolledBack || tx.committed {
		t.Fatalf("scope state: rolledBack=%v committed=%v", tx.rolledBack, tx.committed)
	}
}

func TestRemoveUnconfirmedEdgeSkipsCounters(t *testing.T) {
	tx := &fakeTx{}
	counters := &fakeCounterStore{}
	follows := &fakeFollowStore{
		deleteFn: func(followerID, followeeID uint64) (bool, error) { return false, nil },
	}
	svc := NewFollowService(tx, follows, counters)

	if err := svc.Remove(context.Background(), 1, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(counters.calls) != 0 {
		t.Fatalf("unconfirmed edge must not touch counters, got %d calls", len(counters.calls))
	}
	if !tx.committed {
		t.Fatalf("scope did not commit")
	}
}

func TestRemoveConfirmedEdgeDecrementsBoth(t *testing.T) {
	tx := &fakeTx{}
	counters := &fakeCounterStore{}
	svc := NewFollowService(tx, &fakeFollowStore{}, counters)

	if err := svc.Remove(context.Background(), 1, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []counterCall{
		{userID: 2, field: domain.FollowerCount, delta: -1},
		{userID: 1, field: domain.FolloweeCount, delta: -1},
	}
	if len(counters.calls) != len(want) {
		t.Fatalf("want %d counter calls, got %d", len(want), len(counters.calls))
	}
	for i, w := range want {
		if counters.calls[i] != w {
			t.Fatalf("call %d: want %+v, got %+v", i, w, counters.calls[i])
		}
	}
}

func TestRequestSelfFollowRejected(t *testing.T) {
	svc := NewFollowService(&fakeTx{}, &fakeFollowStore{}, &fakeCounterStore{})
	if err := svc.Request(context.Background(), 4, 4); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("self follow: want ErrConflict, got %v", err)
	}
}
