package flows

import (
	"context"
	"errors"
	"time"
)

// IssueResult carries either a freshly minted pair or failure metadata.
type IssueResult struct {
	Failure          FailureKind
	Err              error
	UserID           int64
	TokenID          string
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	// AllowListErr is set when the allow-list write failed under best-effort issuance.
	AllowListErr error
}

// RunIssue mints an access/refresh pair for userID and allow-lists the refresh jti
// with a TTL equal to the refresh token's remaining lifetime.
func RunIssue(ctx context.Context, userID int64, deps Deps) IssueResult {
	tokenID, err := deps.NewTokenID()
	if err != nil {
		return IssueResult{Failure: FailureEncoding, Err: err, UserID: userID}
	}

	now := deps.Codec.Now()
	accessClaims := deps.Codec.NewAccessClaims(userID, now)
	refreshClaims := deps.Codec.NewRefreshClaims(userID, tokenID, now)
	// The pair shares one jti, so two issuances within the same second still yield
	// distinct access tokens.
	accessClaims.ID = tokenID

	access, err := deps.Codec.Sign(accessClaims)
	if err != nil {
		return IssueResult{Failure: FailureEncoding, Err: err, UserID: userID, TokenID: tokenID}
	}
	refresh, err := deps.Codec.Sign(refreshClaims)
	if err != nil {
		return IssueResult{Failure: FailureEncoding, Err: err, UserID: userID, TokenID: tokenID}
	}

	result := IssueResult{
		UserID:           userID,
		TokenID:          tokenID,
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessClaims.ExpiresAtTime(),
		RefreshExpiresAt: refreshClaims.ExpiresAtTime(),
	}

	ttl := deps.Codec.Remaining(result.RefreshExpiresAt)
	if ttl <= 0 {
		return IssueResult{
			Failure: FailureEncoding,
			Err:     errors.New("refresh token expired at issuance"),
			UserID:  userID,
			TokenID: tokenID,
		}
	}

	if err := deps.Store.Allow(ctx, tokenID, userID, ttl); err != nil {
		if !deps.IssueBestEffort {
			return IssueResult{Failure: FailureStore, Err: err, UserID: userID, TokenID: tokenID}
		}
		result.AllowListErr = err
	}

	return result
}
