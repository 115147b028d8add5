// Package auth implements the credential and token protocol: Basic credential
// decoding, HS256 bearer tokens carrying a type claim (access vs refresh),
// rotation, and the login/register flows built on top of them.
package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// TokenType tags a token as access or refresh. The tag travels in the signed
// payload, so a token can never be presented as the other kind.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenPayload is the verified content of a bearer token. It is never
// persisted; it is reconstructed on every request by checking the signature
// against the shared secret.
type TokenPayload struct {
	UserID    uint64
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

const (
	schemeBasic  = "Basic"
	schemeBearer = "Bearer"
)

// ExtractToken splits an Authorization header into scheme and value and
// checks the scheme against what the route expects: Bearer for protected
// routes, Basic for login. It returns domain.ErrInvalidScheme when the header
// is missing, not two parts, or carries the wrong scheme.
func ExtractToken(rawHeader string, expectBearer bool) (string, error) {
	scheme, token, ok := strings.Cut(rawHeader, " ")
	if !ok || token == "" {
		return "", domain.ErrInvalidScheme
	}
	want := schemeBasic
	if expectBearer {
		want = schemeBearer
	}
	if scheme != want {
		return "", domain.ErrInvalidScheme
	}
	return token, nil
}

// DecodeBasic decodes the base64 payload of a Basic credential into its
// email and password halves. Only the first ':' separates them, so passwords
// containing ':' survive the round trip. Any decode failure is reported as
// domain.ErrMalformedCredential.
func DecodeBasic(encoded string) (email, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", domain.ErrMalformedCredential
	}
	email, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", domain.ErrMalformedCredential
	}
	return email, password, nil
}

// EncodeBasic is the inverse of DecodeBasic. It exists for clients and tests;
// the server itself only decodes.
func EncodeBasic(email, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(email + ":" + password))
}

// IssueToken signs an HS256 JWT for the user with the given type tag and TTL.
// Claims: sub (user id), type (access|refresh), iat, exp.
func IssueToken(secret string, userID uint64, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"type": string(typ),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyToken checks signature and expiry and returns the decoded payload.
// Expired tokens yield domain.ErrTokenExpired; anything else wrong with the
// token (malformed, bad signature, foreign algorithm, missing claims) yields
// domain.ErrTokenInvalid so callers can give different guidance.
func VerifyToken(secret, raw string) (TokenPayload, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPayload{}, domain.ErrTokenExpired
		}
		return TokenPayload{}, domain.ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return TokenPayload{}, domain.ErrTokenInvalid
	}

	sub, ok := claims["sub"].(float64) // JSON numbers decode as float64
	if !ok || sub < 0 {
		return TokenPayload{}, domain.ErrTokenInvalid
	}
	typStr, _ := claims["type"].(string)
	typ := TokenType(typStr)
	if typ != TokenAccess && typ != TokenRefresh {
		return TokenPayload{}, domain.ErrTokenInvalid
	}

	p := TokenPayload{UserID: uint64(sub), Type: typ}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		p.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	return p, nil
}

// RotateToken exchanges a still-valid refresh token for a fresh token: access
// when issueRefresh is false, refresh when true. The incoming token is fully
// re-verified (signature and expiry) and must carry the refresh type tag; an
// access token here is rejected with domain.ErrWrongTokenType, never silently
// accepted. Rotation does not revoke the presented token.
func RotateToken(secret, raw string, issueRefresh bool, accessTTL, refreshTTL time.Duration) (string, error) {
	payload, err := VerifyToken(secret, raw)
	if err != nil {
		return "", err
	}
	if payload.Type != TokenRefresh {
		return "", domain.ErrWrongTokenType
	}
	if issueRefresh {
		return IssueToken(secret, payload.UserID, TokenRefresh, refreshTTL)
	}
	return IssueToken(secret, payload.UserID, TokenAccess, accessTTL)
}
