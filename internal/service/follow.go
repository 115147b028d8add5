// Package service holds the use-cases that span more than one entity and
// therefore must run inside a single transactional scope. Each service
// depends on narrow store interfaces so the all-or-nothing behavior can be
// exercised in tests without a database.
package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// TxManager opens an atomic scope, runs the callback with the scope handle
// and commits only if it returns nil. database.TxRunner is the production
// implementation.
type TxManager interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// FollowStore is the slice of the follow repository the service needs.
type FollowStore interface {
	Create(ctx context.Context, followerID, followeeID uint64) error
	ConfirmTx(ctx context.Context, tx *sql.Tx, followerID, followeeID uint64) error
	DeleteTx(ctx context.Context, tx *sql.Tx, followerID, followeeID uint64) (wasConfirmed bool, err error)
}

// CounterStore adjusts the denormalized follow counters on users inside an
// open scope.
type CounterStore interface {
	IncrementCounterTx(ctx context.Context, tx *sql.Tx, userID uint64, field domain.CounterField, delta int) error
}

// FollowService owns the follow-edge lifecycle. Confirm and Remove touch the
// edge and both parties' counters, so they run through the TxManager; Request
// is a single-row write and runs standalone.
type FollowService struct {
	tx       TxManager
	follows  FollowStore
	counters CounterStore
}

func NewFollowService(tx TxManager, follows FollowStore, counters CounterStore) *FollowService {
	return &FollowService{tx: tx, follows: follows, counters: counters}
}

// Request records that followerID wants to follow followeeID. The edge starts
// unconfirmed; counters do not move until the followee confirms.
func (s *FollowService) Request(ctx context.Context, followerID, followeeID uint64) error {
	if followerID == followeeID {
		return domain.ErrConflict
	}
	return s.follows.Create(ctx, followerID, followeeID)
}

// Confirm flips the edge to confirmed and increments the followee's
// follower_count and the follower's followee_count, all-or-nothing. The
// repository's confirmation gate guarantees a second confirm fails before any
// counter moves, so the counters can never be incremented twice for one edge.
func (s *FollowService) Confirm(ctx context.Context, followerID, followeeID uint64) error {
	return s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.follows.ConfirmTx(ctx, tx, followerID, followeeID); err != nil {
			return err
		}
		if err := s.counters.IncrementCounterTx(ctx, tx, followeeID, domain.FollowerCount, 1); err != nil {
			return err
		}
		return s.counters.IncrementCounterTx(ctx, tx, followerID, domain.FolloweeCount, 1)
	})
}

// Remove deletes the edge. Counters are decremented only when the edge had
// been confirmed: an unconfirmed edge never incremented them, so decrementing
// would desynchronize the counts from the rows.
func (s *FollowService) Remove(ctx context.Context, followerID, followeeID uint64) error {
	return s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		wasConfirmed, err := s.follows.DeleteTx(ctx, tx, followerID, followeeID)
		if err != nil {
			return err
		}
		if !wasConfirmed {
			return nil
		}
		if err := s.counters.IncrementCounterTx(ctx, tx, followeeID, domain.FollowerCount, -1); err != nil {
			return err
		}
		return s.counters.IncrementCounterTx(ctx, tx, followerID, domain.FolloweeCount, -1)
	})
}
