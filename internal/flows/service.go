package flows

import "context"

// Service is the centralized flow runner built once by the root manager.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with a codec and store.
func (s Service) Initialized() bool {
	return s.deps.Codec != nil && s.deps.Store != nil && s.deps.NewTokenID != nil
}

func (s Service) Issue(ctx context.Context, userID int64) IssueResult {
	return RunIssue(ctx, userID, s.deps)
}

func (s Service) VerifyAccess(ctx context.Context, token string) VerifyAccessResult {
	return RunVerifyAccess(ctx, token, s.deps)
}

func (s Service) VerifyRefresh(ctx context.Context, token string) VerifyRefreshResult {
	return RunVerifyRefresh(ctx, token, s.deps)
}

func (s Service) Refresh(ctx context.Context, refreshToken string) RefreshResult {
	return RunRefresh(ctx, refreshToken, s.deps)
}

func (s Service) Revoke(ctx context.Context, refreshToken string, accessToken *string) RevokeResult {
	return RunRevoke(ctx, refreshToken, accessToken, s.deps)
}

func (s Service) RevokeAccess(ctx context.Context, accessToken string) RevokeAccessResult {
	return RunRevokeAccess(ctx, accessToken, s.deps)
}
