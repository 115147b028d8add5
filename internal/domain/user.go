package domain

import "time"

// Role is the closed set of privilege levels. There is no hierarchy: the role
// guard compares for equality, which with two roles amounts to admin-only
// gating.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// CounterField names a denormalized counter column on the users table.
// Repositories only accept values from this set so a field name can never be
// interpolated from request data.
type CounterField string

const (
	FollowerCount CounterField = "follower_count"
	FolloweeCount CounterField = "followee_count"
)

// User mirrors the 'users' table. FollowerCount and FolloweeCount are
// denormalized and mutated only inside the same transaction as the follow
// edge they describe.
type User struct {
	ID            uint64    `json:"id"`
	Email         string    `json:"email"`
	Nickname      string    `json:"nickname"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	FollowerCount uint64    `json:"follower_count"`
	FolloweeCount uint64    `json:"followee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Follow mirrors the 'follows' table: one row per ordered
// (follower, followee) pair. IsConfirmed transitions false -> true exactly
// once; the transition is what drives the counter increments.
type Follow struct {
	FollowerID  uint64    `json:"follower_id"`
	FolloweeID  uint64    `json:"followee_id"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Follower is a row of the "who follows me" listing: the follower's public
// fields plus the edge's confirmation flag.
type Follower struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email"`
	Nickname    string `json:"nickname"`
	IsConfirmed bool   `json:"is_confirmed"`
}
