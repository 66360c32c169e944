package domain

// ErrorKind is the stable, client-visible classification of a failure.
type ErrorKind string

const (
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindAccountInactive    ErrorKind = "account_inactive"
	KindUnknownRole        ErrorKind = "unknown_role"
	KindProfileNotFound    ErrorKind = "profile_not_found"
	KindTokenInvalid       ErrorKind = "token_invalid"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindStoreUnavailable   ErrorKind = "store_unavailable"
)

// Error is a classified failure. The sentinel values below are compared with
// errors.Is; callers wrap them with fmt.Errorf("...: %w", ...) to add context
// that is logged but never rendered.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid username or password"}
	ErrAccountInactive    = &Error{Kind: KindAccountInactive, Message: "account is inactive"}
	ErrUnknownRole        = &Error{Kind: KindUnknownRole, Message: "unknown role"}
	ErrProfileNotFound    = &Error{Kind: KindProfileNotFound, Message: "user profile not found"}
	ErrTokenInvalid       = &Error{Kind: KindTokenInvalid, Message: "invalid token"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "could not validate credentials"}
	ErrStoreUnavailable   = &Error{Kind: KindStoreUnavailable, Message: "credential store unavailable"}
)

// ErrRecordNotFound is returned by store adapters when a lookup matches no row.
// It never crosses the service boundary.
var ErrRecordNotFound = &Error{Kind: "record_not_found", Message: "record not found"}

// IsServerFault reports whether the kind describes a server-side problem
// rather than a rejected caller.
func (k ErrorKind) IsServerFault() bool {
	switch k {
	case KindUnknownRole, KindProfileNotFound, KindStoreUnavailable:
		return true
	}
	return false
}
