package flows

import (
	"context"

	"github.com/MrEthical07/goToken/jwt"
	"github.com/MrEthical07/goToken/revocation"
)

// RefreshResult carries the rotated pair or failure metadata.
type RefreshResult struct {
	Failure FailureKind
	Err     error
	// Previous holds the presented token's claims once they verified.
	Previous *jwt.RefreshClaims
	// Consumed reports whether the presented token was revoked by this call. A
	// consumed token with a failed issuance leaves the user without a live refresh
	// token.
	Consumed bool
	Issued   IssueResult
}

// RunRefresh exchanges a live refresh token for a new pair, revoking the presented
// token first. The blacklist pre-check rejects replayed tokens without touching the
// allow-list; the authoritative check-and-revoke is a single atomic store call.
func RunRefresh(ctx context.Context, refreshToken string, deps Deps) RefreshResult {
	blacklisted, err := deps.Store.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return RefreshResult{Failure: FailureStore, Err: err}
	}
	if blacklisted {
		return RefreshResult{Failure: FailureBlacklisted}
	}

	claims, err := deps.Codec.ParseRefresh(refreshToken)
	if err != nil {
		return RefreshResult{Failure: codecFailure(err), Err: err}
	}

	ttl := deps.Codec.Remaining(claims.ExpiresAtTime())
	if ttl <= 0 {
		return RefreshResult{Failure: FailureExpired, Previous: claims}
	}

	outcome, err := deps.Store.ConsumeRefresh(ctx, refreshToken, claims.TokenID(), ttl)
	if err != nil {
		return RefreshResult{Failure: FailureStore, Err: err, Previous: claims}
	}
	switch outcome {
	case revocation.ConsumeBlacklisted:
		return RefreshResult{Failure: FailureBlacklisted, Previous: claims}
	case revocation.ConsumeNotAllowed:
		return RefreshResult{Failure: FailureNotAllowed, Previous: claims}
	}

	issued := RunIssue(ctx, claims.UserID, deps)
	return RefreshResult{
		Failure:  issued.Failure,
		Err:      issued.Err,
		Previous: claims,
		Consumed: true,
		Issued:   issued,
	}
}
