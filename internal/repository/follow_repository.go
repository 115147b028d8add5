package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// FollowRepo mirrors the 'follows' table: one row per ordered
// (follower_id, followee_id) pair, unique index on the pair.
type FollowRepo struct{ DB *sql.DB }

func NewFollowRepo(db *sql.DB) *FollowRepo { return &FollowRepo{DB: db} }

// Create inserts an unconfirmed follow edge. A duplicate pair comes back as
// domain.ErrConflict. Runs standalone: nothing else changes until the edge
// is confirmed, so no transaction is needed here.
func (r *FollowRepo) Create(ctx context.Context, followerID, followeeID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO follows (follower_id, followee_id, is_confirmed) VALUES (?,?,0)",
		followerID, followeeID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// ConfirmTx flips is_confirmed false -> true within an open transaction. The
// 'AND is_confirmed=0' predicate is the idempotence gate: a second confirm
// affects zero rows and is reported as domain.ErrConflict, so the caller's
// counter increments can never run twice for the same edge. A missing edge is
// domain.ErrNotFound.
func (r *FollowRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, followerID, followeeID uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE follows SET is_confirmed=1 WHERE follower_id=? AND followee_id=? AND is_confirmed=0",
		followerID, followeeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var confirmed bool
		err := tx.QueryRowContext(ctx,
			"SELECT is_confirmed FROM follows WHERE follower_id=? AND followee_id=? LIMIT 1",
			followerID, followeeID).Scan(&confirmed)
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrConflict
	}
	return nil
}

// DeleteTx removes the edge within an open transaction and reports whether
// the deleted edge had been confirmed, so the caller knows whether counters
// were ever incremented for it and need decrementing now.
func (r *FollowRepo) DeleteTx(ctx context.Context, tx *sql.Tx, followerID, followeeID uint64) (wasConfirmed bool, err error) {
	err = tx.QueryRowContext(ctx,
		"SELECT is_confirmed FROM follows WHERE follower_id=? AND followee_id=? FOR UPDATE",
		followerID, followeeID).Scan(&wasConfirmed)
	if err == sql.ErrNoRows {
		return false, domain.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	_, err = tx.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id=? AND followee_id=?",
		followerID, followeeID)
	return wasConfirmed, err
}

// ListFollowers returns the users following userID. Unconfirmed edges are
// included only when includeUnconfirmed is set.
func (r *FollowRepo) ListFollowers(ctx context.Context, userID uint64, includeUnconfirmed bool) ([]domain.Follower, error) {
	q := `SELECT u.id, u.email, u.nickname, f.is_confirmed
	      FROM follows f
	      JOIN users u ON u.id = f.follower_id
	      WHERE f.followee_id = ?`
	if !includeUnconfirmed {
		q += " AND f.is_confirmed = 1"
	}
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var followers []domain.Follower
	for rows.Next() {
		var f domain.Follower
		if err := rows.Scan(&f.UserID, &f.Email, &f.Nickname, &f.IsConfirmed); err != nil {
			return nil, err
		}
		followers = append(followers, f)
	}
	return followers, rows.Err()
}
