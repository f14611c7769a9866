package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goToken/jwt"
)

// RevokeResult reports what a logout actually changed.
type RevokeResult struct {
	Failure FailureKind
	Err     error
	Claims  *jwt.RefreshClaims
	// AlreadyExpired is set when the refresh token had lapsed, which makes revocation
	// a no-op.
	AlreadyExpired bool
	// AccessRevoked is set when a supplied access token was blacklisted too.
	AccessRevoked bool
	// AccessSkipped holds the reason a supplied access token was left alone.
	AccessSkipped error
}

// RunRevoke blacklists a refresh token and drops its allow-list entry regardless of
// whether it is still allow-listed, so repeated logouts succeed. A supplied access
// token is blacklisted for its remaining lifetime when it still verifies.
func RunRevoke(ctx context.Context, refreshToken string, accessToken *string, deps Deps) RevokeResult {
	var result RevokeResult

	claims, err := deps.Codec.ParseRefresh(refreshToken)
	switch {
	case errors.Is(err, jwt.ErrExpired):
		result.AlreadyExpired = true
	case err != nil:
		return RevokeResult{Failure: codecFailure(err), Err: err}
	default:
		result.Claims = claims
		if ttl := deps.Codec.Remaining(claims.ExpiresAtTime()); ttl > 0 {
			if err := deps.Store.Blacklist(ctx, refreshToken, ttl); err != nil {
				return RevokeResult{Failure: FailureStore, Err: err, Claims: claims}
			}
		}
		if err := deps.Store.Disallow(ctx, claims.TokenID()); err != nil {
			return RevokeResult{Failure: FailureStore, Err: err, Claims: claims}
		}
	}

	if accessToken == nil || *accessToken == "" {
		return result
	}

	access := RunRevokeAccess(ctx, *accessToken, deps)
	switch {
	case access.Failure == FailureStore:
		result.Failure = FailureStore
		result.Err = access.Err
	case access.Failure != FailureNone:
		result.AccessSkipped = access.Err
	case access.AlreadyExpired:
		result.AccessSkipped = jwt.ErrExpired
	default:
		result.AccessRevoked = true
	}
	return result
}

// RevokeAccessResult reports the outcome of blacklisting a single access token.
type RevokeAccessResult struct {
	Failure FailureKind
	Err     error
	Claims  *jwt.AccessClaims
	// AlreadyExpired is set when the token had lapsed and nothing was written.
	AlreadyExpired bool
}

// RunRevokeAccess blacklists one access token for its remaining lifetime.
func RunRevokeAccess(ctx context.Context, accessToken string, deps Deps) RevokeAccessResult {
	claims, err := deps.Codec.ParseAccess(accessToken)
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return RevokeAccessResult{AlreadyExpired: true}
	case err != nil:
		return RevokeAccessResult{Failure: codecFailure(err), Err: err}
	}

	ttl := deps.Codec.Remaining(claims.ExpiresAtTime())
	if ttl <= 0 {
		return RevokeAccessResult{Claims: claims, AlreadyExpired: true}
	}
	if err := deps.Store.Blacklist(ctx, accessToken, ttl); err != nil {
		return RevokeAccessResult{Failure: FailureStore, Err: err, Claims: claims}
	}
	return RevokeAccessResult{Claims: claims}
}
