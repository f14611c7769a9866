package flows

import (
	"context"

	"github.com/MrEthical07/goToken/jwt"
)

// VerifyAccessResult carries validated access claims or failure metadata.
type VerifyAccessResult struct {
	Failure FailureKind
	Err     error
	Claims  *jwt.AccessClaims
	// BlacklistErr is set when the blacklist lookup failed and the fail-open policy
	// let verification continue.
	BlacklistErr error
}

// RunVerifyAccess checks the blacklist and then the token's signature, expiry and
// type. It never mutates the store.
func RunVerifyAccess(ctx context.Context, token string, deps Deps) VerifyAccessResult {
	var result VerifyAccessResult

	blacklisted, err := deps.Store.IsBlacklisted(ctx, token)
	switch {
	case err != nil && !deps.BlacklistFailOpen:
		return VerifyAccessResult{Failure: FailureStore, Err: err}
	case err != nil:
		result.BlacklistErr = err
	case blacklisted:
		return VerifyAccessResult{Failure: FailureBlacklisted}
	}

	claims, err := deps.Codec.ParseAccess(token)
	if err != nil {
		return VerifyAccessResult{Failure: codecFailure(err), Err: err, BlacklistErr: result.BlacklistErr}
	}

	result.Claims = claims
	return result
}

// VerifyRefreshResult carries validated refresh claims or failure metadata.
type VerifyRefreshResult struct {
	Failure FailureKind
	Err     error
	Claims  *jwt.RefreshClaims
}

// RunVerifyRefresh applies every refresh validity condition (signature, expiry,
// blacklist, allow-list) without consuming the token. Store failures always fail
// closed.
func RunVerifyRefresh(ctx context.Context, token string, deps Deps) VerifyRefreshResult {
	blacklisted, err := deps.Store.IsBlacklisted(ctx, token)
	if err != nil {
		return VerifyRefreshResult{Failure: FailureStore, Err: err}
	}
	if blacklisted {
		return VerifyRefreshResult{Failure: FailureBlacklisted}
	}

	claims, err := deps.Codec.ParseRefresh(token)
	if err != nil {
		return VerifyRefreshResult{Failure: codecFailure(err), Err: err}
	}

	allowed, err := deps.Store.IsAllowed(ctx, claims.TokenID())
	if err != nil {
		return VerifyRefreshResult{Failure: FailureStore, Err: err, Claims: claims}
	}
	if !allowed {
		return VerifyRefreshResult{Failure: FailureNotAllowed, Claims: claims}
	}

	return VerifyRefreshResult{Claims: claims}
}
