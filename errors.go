package goToken

import "errors"

// ErrorKind is the closed set of failure categories every Manager error belongs to.
type ErrorKind uint8

const (
	// KindInvalidToken covers bad signatures, malformed input, wrong token type,
	// blacklisted tokens, and refresh tokens missing from the allow-list. The
	// individual cause is deliberately not exposed.
	KindInvalidToken ErrorKind = iota + 1
	// KindExpired is a natural lifetime lapse. Refresh folds it into KindInvalidToken.
	KindExpired
	// KindStoreUnavailable is a revocation-store transport failure, distinct from any
	// judgement about the credential.
	KindStoreUnavailable
	// KindEncoding is an internal signing failure.
	KindEncoding
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidToken:
		return "invalid token"
	case KindExpired:
		return "token expired"
	case KindStoreUnavailable:
		return "token store unavailable"
	case KindEncoding:
		return "token encoding failed"
	default:
		return "unknown token error"
	}
}

// Error is the error type returned by every Manager operation.
//
// InvalidToken and Expired errors carry no cause, so callers cannot tell a forged
// token from a revoked one. StoreUnavailable and Encoding errors unwrap to the
// underlying failure.
type Error struct {
	Kind  ErrorKind
	Op    string
	cause error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrInvalidToken) works
// regardless of the operation that produced err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	// ErrInvalidToken is the sentinel for KindInvalidToken.
	ErrInvalidToken = &Error{Kind: KindInvalidToken}
	// ErrExpired is the sentinel for KindExpired.
	ErrExpired = &Error{Kind: KindExpired}
	// ErrStoreUnavailable is the sentinel for KindStoreUnavailable.
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
	// ErrEncoding is the sentinel for KindEncoding.
	ErrEncoding = &Error{Kind: KindEncoding}
)

// KindOf returns the ErrorKind carried by err, or 0 if err is not a Manager error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind ErrorKind, op string, cause error) *Error {
	if kind == KindInvalidToken || kind == KindExpired {
		cause = nil
	}
	return &Error{Kind: kind, Op: op, cause: cause}
}
