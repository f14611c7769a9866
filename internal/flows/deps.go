package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goToken/jwt"
	"github.com/MrEthical07/goToken/revocation"
)

// Codec is the subset of *jwt.Codec the flows depend on.
type Codec interface {
	Now() time.Time
	NewAccessClaims(userID int64, now time.Time) *jwt.AccessClaims
	NewRefreshClaims(userID int64, tokenID string, now time.Time) *jwt.RefreshClaims
	Sign(claims jwt.Claims) (string, error)
	ParseAccess(token string) (*jwt.AccessClaims, error)
	ParseRefresh(token string) (*jwt.RefreshClaims, error)
	Remaining(exp time.Time) time.Duration
}

// Store is the subset of *revocation.Store the flows depend on.
type Store interface {
	Allow(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error
	Disallow(ctx context.Context, tokenID string) error
	IsAllowed(ctx context.Context, tokenID string) (bool, error)
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	ConsumeRefresh(ctx context.Context, token, tokenID string, ttl time.Duration) (revocation.ConsumeResult, error)
}

// Deps captures the dependencies shared by every lifecycle flow.
type Deps struct {
	Codec      Codec
	Store      Store
	NewTokenID func() (string, error)

	// IssueBestEffort keeps issuance successful when the allow-list write fails.
	IssueBestEffort bool
	// BlacklistFailOpen lets VerifyAccess proceed when the blacklist is unreachable.
	BlacklistFailOpen bool
}

// FailureKind classifies flow failures for root-level mapping.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureMalformed
	FailureSignature
	FailureExpired
	FailureClaims
	FailureWrongType
	FailureBlacklisted
	FailureNotAllowed
	FailureStore
	FailureEncoding
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureMalformed:
		return "malformed"
	case FailureSignature:
		return "signature"
	case FailureExpired:
		return "expired"
	case FailureClaims:
		return "claims"
	case FailureWrongType:
		return "wrong_type"
	case FailureBlacklisted:
		return "blacklisted"
	case FailureNotAllowed:
		return "not_allowed"
	case FailureStore:
		return "store"
	case FailureEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

func codecFailure(err error) FailureKind {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return FailureExpired
	case errors.Is(err, jwt.ErrInvalidSignature):
		return FailureSignature
	case errors.Is(err, jwt.ErrWrongType):
		return FailureWrongType
	case errors.Is(err, jwt.ErrMalformed):
		return FailureMalformed
	default:
		return FailureClaims
	}
}
