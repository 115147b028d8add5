package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/social-network-api/internal/domain"
	"github.com/iliyamo/social-network-api/internal/utils"
)

// mockIdentityStore implements IdentityStore with function fields so each
// test overrides only what it needs.
type mockIdentityStore struct {
	getByEmailFn func(ctx context.Context, email string) (domain.User, error)
	getByIDFn    func(ctx context.Context, id uint64) (domain.User, error)
	createFn     func(ctx context.Context, email, passwordHash, nickname string) (uint64, error)
}

func (m *mockIdentityStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *mockIdentityStore) GetByID(ctx context.Context, id uint64) (domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *mockIdentityStore) Create(ctx context.Context, email, passwordHash, nickname string) (uint64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, email, passwordHash, nickname)
	}
	return 1, nil
}

func newTestService(store IdentityStore) *Service {
	return NewService(testSecret, time.Minute, time.Hour, 4, store) // min bcrypt cost keeps tests fast
}

func storedUser(t *testing.T, id uint64, email, password string) domain.User {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return domain.User{ID: id, Email: email, Nickname: "nick", PasswordHash: hash, Role: domain.RoleUser}
}

func TestLoginSuccess(t *testing.T) {
	stored := storedUser(t, 9, "a@x.com", "abcdefgh")
	svc := newTestService(&mockIdentityStore{
		getByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			if email != "a@x.com" {
				return domain.User{}, domain.ErrNotFound
			}
			return stored, nil
		},
	})

	u, pair, err := svc.Login(context.Background(), "a@x.com", "abcdefgh")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != 9 {
		t.Fatalf("want user 9, got %d", u.ID)
	}
	for _, tok := range []struct {
		raw  string
		want TokenType
	}{{pair.AccessToken, TokenAccess}, {pair.RefreshToken, TokenRefresh}} {
		p, err := VerifyToken(testSecret, tok.raw)
		if err != nil {
			t.Fatalf("verify %s: %v", tok.want, err)
		}
		if p.UserID != 9 || p.Type != tok.want {
			t.Fatalf("payload: want sub=9 type=%s, got sub=%d type=%s", tok.want, p.UserID, p.Type)
		}
	}
}

// A wrong password and an unknown email must be indistinguishable.
func TestLoginRejectionLeaksNothing(t *testing.T) {
	stored := storedUser(t, 9, "a@x.com", "abcdefgh")
	svc := newTestService(&mockIdentityStore{
		getByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			if email == "a@x.com" {
				return stored, nil
			}
			return domain.User{}, domain.ErrNotFound
		},
	})

	_, _, wrongPass := svc.Login(context.Background(), "a@x.com", "wrong")
	_, _, unknown := svc.Login(context.Background(), "nobody@x.com", "abcdefgh")

	if !errors.Is(wrongPass, domain.ErrCredentialRejected) {
		t.Fatalf("wrong password: want ErrCredentialRejected, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrCredentialRejected) {
		t.Fatalf("unknown email: want ErrCredentialRejected, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("distinguishable rejections: %q vs %q", wrongPass, unknown)
	}
}

func TestRegisterStoresDigestNotPlaintext(t *testing.T) {
	var gotHash string
	store := &mockIdentityStore{
		createFn: func(ctx context.Context, email, passwordHash, nickname string) (uint64, error) {
			gotHash = passwordHash
			return 5, nil
		},
		getByIDFn: func(ctx context.Context, id uint64) (domain.User, error) {
			return domain.User{ID: id, Email: "a@x.com", Nickname: "nick", Role: domain.RoleUser}, nil
		},
	}
	svc := newTestService(store)

	u, pair, err := svc.Register(context.Background(), "a@x.com", "abcdefgh", "nick")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID != 5 {
		t.Fatalf("want user 5, got %d", u.ID)
	}
	if gotHash == "abcdefgh" || gotHash == "" {
		t.Fatalf("plaintext reached the store: %q", gotHash)
	}
	if !utils.VerifyPassword(gotHash, "abcdefgh") {
		t.Fatalf("stored digest does not verify")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("register must return a full token pair")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(&mockIdentityStore{
		createFn: func(ctx context.Context, email, passwordHash, nickname string) (uint64, error) {
			return 0, domain.ErrDuplicateIdentity
		},
	})
	if _, _, err := svc.Register(context.Background(), "a@x.com", "abcdefgh", "nick"); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("want ErrDuplicateIdentity, got %v", err)
	}
}

// Full lifecycle: register -> login -> rotate with the refresh token ->
// fresh access token for the same identity -> rotating with that access
// token fails.
func TestTokenLifecycleEndToEnd(t *testing.T) {
	users := map[string]domain.User{}
	store := &mockIdentityStore{
		createFn: func(ctx context.Context, email, passwordHash, nickname string) (uint64, error) {
			users[email] = domain.User{ID: 3, Email: email, Nickname: nickname, PasswordHash: passwordHash, Role: domain.RoleUser}
			return 3, nil
		},
		getByEmailFn: func(ctx context.Context, email string) (domain.User, error) {
			u, ok := users[email]
			if !ok {
				return domain.User{}, domain.ErrNotFound
			}
			return u, nil
		},
		getByIDFn: func(ctx context.Context, id uint64) (domain.User, error) {
			for _, u := range users {
				if u.ID == id {
					return u, nil
				}
			}
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := newTestService(store)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "a@x.com", "abcdefgh", "nick"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, pair, err := svc.Login(ctx, "a@x.com", "abcdefgh")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fresh, err := svc.Rotate(pair.RefreshToken, false)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	p, err := VerifyToken(testSecret, fresh)
	if err != nil {
		t.Fatalf("verify rotated: %v", err)
	}
	if p.UserID != 3 || p.Type != TokenAccess {
		t.Fatalf("rotated token: want sub=3 type=access, got sub=%d type=%s", p.UserID, p.Type)
	}

	if _, err := svc.Rotate(fresh, false); !errors.Is(err, domain.ErrWrongTokenType) {
		t.Fatalf("rotating an access token: want ErrWrongTokenType, got %v", err)
	}
}
