package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// UserRepo mirrors the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,nickname,password_hash,role,follower_count,followee_count,created_at,updated_at"

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Role,
		&u.FollowerCount, &u.FolloweeCount, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

// Create inserts a user and returns its ID. Both email and nickname carry a
// unique index; either collision comes back as domain.ErrDuplicateIdentity.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, nickname string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, nickname, password_hash, role) VALUES (?,?,?,?)",
		email, nickname, passwordHash, domain.RoleUser)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, domain.ErrDuplicateIdentity
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users, newest first. Admin-only at the route level.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Role,
			&u.FollowerCount, &u.FolloweeCount, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// IncrementCounterTx adjusts one of the denormalized follow counters inside
// an open transaction. The field is a closed enum, never request data, so the
// column name can be spliced into the statement. The row-level lock the
// UPDATE takes is what serializes two concurrent writers on the same user.
func (r *UserRepo) IncrementCounterTx(ctx context.Context, tx *sql.Tx, userID uint64, field domain.CounterField, delta int) error {
	var column string
	switch field {
	case domain.FollowerCount:
		column = "follower_count"
	case domain.FolloweeCount:
		column = "followee_count"
	default:
		return fmt.Errorf("unknown counter field %q", field)
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET "+column+" = "+column+" + ? WHERE id = ?", delta, userID)
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
