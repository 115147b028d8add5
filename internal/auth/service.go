package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/social-network-api/internal/domain"
	"github.com/iliyamo/social-network-api/internal/utils"
)

// IdentityStore is the slice of the user repository the auth service needs.
type IdentityStore interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id uint64) (domain.User, error)
	Create(ctx context.Context, email, passwordHash, nickname string) (uint64, error)
}

// TokenPair is what login and register hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service owns the credential flows: registration, login and token issuance.
// Token verification itself is stateless (see token.go); the store is only
// consulted to resolve credentials and to load identities.
type Service struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
	Users      IdentityStore
}

func NewService(secret string, accessTTL, refreshTTL time.Duration, bcryptCost int, users IdentityStore) *Service {
	return &Service{
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		BcryptCost: bcryptCost,
		Users:      users,
	}
}

// IssuePair signs a fresh access+refresh pair for the user.
func (s *Service) IssuePair(userID uint64) (TokenPair, error) {
	access, err := IssueToken(s.Secret, userID, TokenAccess, s.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := IssueToken(s.Secret, userID, TokenRefresh, s.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate exchanges a verified refresh token for a new access token
// (issueRefresh=false) or refresh token (issueRefresh=true), re-verifying the
// presented token from scratch.
func (s *Service) Rotate(raw string, issueRefresh bool) (string, error) {
	return RotateToken(s.Secret, raw, issueRefresh, s.AccessTTL, s.RefreshTTL)
}

// Login resolves the email, checks the password against the stored bcrypt
// digest and issues a token pair. Unknown email and wrong password both come
// back as domain.ErrCredentialRejected so the response leaks nothing about
// which half failed.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, TokenPair{}, domain.ErrCredentialRejected
		}
		return domain.User{}, TokenPair{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return domain.User{}, TokenPair{}, domain.ErrCredentialRejected
	}
	pair, err := s.IssuePair(u.ID)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return u, pair, nil
}

// Register creates the identity (storing only the bcrypt digest, never the
// plaintext) and logs it straight in, returning the same shape as Login.
// A taken email or nickname yields domain.ErrDuplicateIdentity.
func (s *Service) Register(ctx context.Context, email, password, nickname string) (domain.User, TokenPair, error) {
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	id, err := s.Users.Create(ctx, email, hash, nickname)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	pair, err := s.IssuePair(id)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return u, pair, nil
}
