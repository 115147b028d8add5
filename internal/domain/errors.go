// Package domain holds the entities shared across repositories, services and
// handlers, together with the sentinel errors the rest of the application
// matches on. Handlers translate these into HTTP statuses; repositories and
// guards only ever return values from this set (possibly wrapped with %w).
package domain

import "errors"

// Credential / token failures. All of these surface as 401 responses.
var (
	// ErrMalformedCredential is returned when a Basic credential cannot be
	// decoded: bad base64 or no ':' separator in the decoded value.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrInvalidScheme is returned when the Authorization header does not
	// carry the scheme the route expects (Basic for login, Bearer elsewhere).
	ErrInvalidScheme = errors.New("invalid authorization scheme")

	// ErrTokenExpired and ErrTokenInvalid are deliberately distinct so
	// clients can be told to refresh versus to log in again.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	// ErrWrongTokenType is returned when a token's type claim does not match
	// the route's requirement, e.g. an access token presented for rotation.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrCredentialRejected covers both an unknown email and a wrong
	// password. Callers must not be able to tell which part was wrong.
	ErrCredentialRejected = errors.New("invalid credentials")

	// ErrUnauthenticated is returned when a guard finds no identity on the
	// request at all.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Authorization failures.
var (
	// ErrInsufficientRole is returned by the role guard when the identity's
	// role does not match the role declared on the route.
	ErrInsufficientRole = errors.New("insufficient role")

	// ErrForbidden is returned when the requester neither owns the resource
	// nor holds the admin role.
	ErrForbidden = errors.New("forbidden")
)

// Request / state failures.
var (
	// ErrDuplicateIdentity is returned when registering with an email or
	// nickname that is already taken.
	ErrDuplicateIdentity = errors.New("email or nickname already in use")

	// ErrMissingParameter is returned when a guard needs a route parameter
	// (e.g. the comment id) and it is absent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation cannot proceed because of
	// existing state, such as following the same user twice or confirming an
	// already confirmed follow edge.
	ErrConflict = errors.New("conflict")
)

// ErrTransactionFailed wraps whatever storage error forced a rollback. The
// cause stays reachable through errors.Is/As; it is never swallowed, since a
// partially applied multi-row write would be a correctness violation.
var ErrTransactionFailed = errors.New("transaction failed")
