package goToken

import (
	"context"
	"time"

	internalaudit "github.com/MrEthical07/goToken/internal/audit"
	"github.com/MrEthical07/goToken/internal/flows"
	"github.com/MrEthical07/goToken/jwt"
	"github.com/MrEthical07/goToken/revocation"
	"go.uber.org/zap"
)

const (
	opIssue         = "issue"
	opVerifyAccess  = "verify_access"
	opVerifyRefresh = "verify_refresh"
	opRefresh       = "refresh"
	opRevoke        = "revoke"
	opRevokeAccess  = "revoke_access"
	opPing          = "ping"
)

// Manager issues, verifies, rotates and revokes access/refresh token pairs.
//
// A Manager is built once with [Builder.Build] and is safe for concurrent use. It
// holds no per-user state in memory; all revocation state lives in Redis, so any
// number of Manager instances may share one store.
type Manager struct {
	config  Config
	codec   *jwt.Codec
	store   *revocation.Store
	flows   flows.Service
	audit   *internalaudit.Dispatcher
	metrics *Metrics
	logger  *zap.Logger
}

// Close flushes pending audit events. The Redis client is owned by the caller and is
// left open.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	if m.audit != nil {
		m.audit.Close()
	}
	_ = m.logger.Sync()
}

// AuditDropped reports how many audit events were discarded under backpressure.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// MetricsSnapshot returns a copy of the lifecycle counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

// Issue mints a fresh pair for userID and allow-lists the refresh token for its full
// lifetime. Under IssueTransactional an allow-list write failure fails the call with
// ErrStoreUnavailable; under IssueBestEffort the pair is still returned but its
// refresh token will be rejected by Refresh.
//
// Issue does not authenticate userID; callers invoke it after their own credential
// check.
func (m *Manager) Issue(ctx context.Context, userID int64) (TokenPair, error) {
	res := m.flows.Issue(ctx, userID)
	if res.Failure != flows.FailureNone {
		m.metricInc(MetricIssueFailure)
		m.logger.Error("token issuance failed",
			zap.String("op", opIssue),
			zap.Int64("sub", userID),
			zap.String("jti", res.TokenID),
			zap.String("reason", res.Failure.String()),
			zap.Error(res.Err),
		)
		err := m.failure(opIssue, res.Failure, res.Err)
		m.emitAudit(ctx, auditEventTokenIssued, false, userID, res.TokenID, err, nil)
		return TokenPair{}, err
	}

	if res.AllowListErr != nil {
		m.metricInc(MetricIssueAllowListDegraded)
		m.metricInc(MetricStoreUnavailable)
		m.logger.Warn("refresh token not allow-listed; returning pair under best-effort policy",
			zap.String("op", opIssue),
			zap.Int64("sub", userID),
			zap.String("jti", res.TokenID),
			zap.Error(res.AllowListErr),
		)
	}

	m.metricInc(MetricIssueSuccess)
	m.emitAudit(ctx, auditEventTokenIssued, true, userID, res.TokenID, nil, func() map[string]string {
		if res.AllowListErr == nil {
			return nil
		}
		return map[string]string{"allow_list": "degraded"}
	})
	return pairFromIssue(res), nil
}

// VerifyAccess returns the claims of a live access token. It fails with
// ErrInvalidToken for blacklisted, forged, malformed or refresh tokens and with
// ErrExpired once the token has lapsed. It never mutates the store.
func (m *Manager) VerifyAccess(ctx context.Context, token string) (*AccessClaims, error) {
	start := time.Now()
	res := m.flows.VerifyAccess(ctx, token)
	if m.metrics.LatencyEnabled() {
		m.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}

	if res.BlacklistErr != nil {
		m.metricInc(MetricVerifyFailOpen)
		m.metricInc(MetricStoreUnavailable)
		m.logger.Warn("blacklist unreachable; verifying access token without revocation check",
			zap.String("op", opVerifyAccess),
			zap.Error(res.BlacklistErr),
		)
	}

	if res.Failure != flows.FailureNone {
		m.metricInc(MetricVerifyFailure)
		if res.Failure == flows.FailureBlacklisted {
			m.metricInc(MetricVerifyBlacklisted)
		}
		m.logRejection(opVerifyAccess, 0, "", res.Failure, res.Err)
		return nil, m.failure(opVerifyAccess, res.Failure, res.Err)
	}

	m.metricInc(MetricVerifySuccess)
	return res.Claims, nil
}

// VerifyRefresh reports whether a refresh token would currently be accepted by
// Refresh without consuming it. Store failures always surface as
// ErrStoreUnavailable.
func (m *Manager) VerifyRefresh(ctx context.Context, token string) (*RefreshClaims, error) {
	res := m.flows.VerifyRefresh(ctx, token)
	if res.Failure != flows.FailureNone {
		m.metricInc(MetricVerifyFailure)
		if res.Failure == flows.FailureBlacklisted {
			m.metricInc(MetricVerifyBlacklisted)
		}
		userID, tokenID := refreshIdentity(res.Claims)
		m.logRejection(opVerifyRefresh, userID, tokenID, res.Failure, res.Err)
		return nil, m.failure(opVerifyRefresh, res.Failure, res.Err)
	}

	m.metricInc(MetricVerifySuccess)
	return res.Claims, nil
}

// Refresh exchanges a live refresh token for a new pair and revokes the presented
// token. Each refresh token can be exchanged at most once, even under concurrent
// calls. Expired, replayed, revoked and forged tokens all fail with ErrInvalidToken.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	res := m.flows.Refresh(ctx, refreshToken)
	userID, tokenID := refreshIdentity(res.Previous)

	if res.Failure != flows.FailureNone {
		m.metricInc(MetricRefreshFailure)
		err := m.failure(opRefresh, res.Failure, res.Err)
		if res.Failure == flows.FailureExpired {
			err = newError(KindInvalidToken, opRefresh, nil)
		}

		if res.Consumed {
			// The presented token is gone and no replacement exists; the user must
			// re-authenticate.
			m.logger.Error("refresh token consumed but replacement issuance failed",
				zap.String("op", opRefresh),
				zap.Int64("sub", userID),
				zap.String("jti", tokenID),
				zap.String("reason", res.Failure.String()),
				zap.Error(res.Err),
			)
			m.emitAudit(ctx, auditEventTokenRefreshed, false, userID, tokenID, err, nil)
			return TokenPair{}, err
		}

		switch res.Failure {
		case flows.FailureBlacklisted, flows.FailureNotAllowed:
			m.metricInc(MetricRefreshReuseDetected)
			m.logger.Warn("refresh token reuse detected",
				zap.String("op", opRefresh),
				zap.Int64("sub", userID),
				zap.String("jti", tokenID),
				zap.String("reason", res.Failure.String()),
			)
			m.emitAudit(ctx, auditEventRefreshReuseDetected, false, userID, tokenID, err, func() map[string]string {
				return map[string]string{"reason": res.Failure.String()}
			})
		default:
			m.logRejection(opRefresh, userID, tokenID, res.Failure, res.Err)
			m.emitAudit(ctx, auditEventTokenRejected, false, userID, tokenID, err, func() map[string]string {
				return map[string]string{"op": opRefresh, "reason": res.Failure.String()}
			})
		}
		return TokenPair{}, err
	}

	if res.Issued.AllowListErr != nil {
		m.metricInc(MetricIssueAllowListDegraded)
		m.metricInc(MetricStoreUnavailable)
		m.logger.Warn("rotated refresh token not allow-listed; returning pair under best-effort policy",
			zap.String("op", opRefresh),
			zap.Int64("sub", userID),
			zap.String("jti", res.Issued.TokenID),
			zap.Error(res.Issued.AllowListErr),
		)
	}

	m.metricInc(MetricRefreshSuccess)
	m.metricInc(MetricIssueSuccess)
	m.emitAudit(ctx, auditEventTokenRefreshed, true, userID, res.Issued.TokenID, nil, func() map[string]string {
		return map[string]string{"previous_token_id": tokenID}
	})
	return pairFromIssue(res.Issued), nil
}

// Revoke blacklists refreshToken and removes it from the allow-list. When
// accessToken is non-nil and still verifies, it is blacklisted as well; an invalid
// or expired access token is ignored.
//
// Revoking an already revoked, consumed or expired refresh token succeeds. A
// malformed or forged refresh token fails with ErrInvalidToken.
func (m *Manager) Revoke(ctx context.Context, refreshToken string, accessToken *string) error {
	res := m.flows.Revoke(ctx, refreshToken, accessToken)
	userID, tokenID := refreshIdentity(res.Claims)

	if res.Failure != flows.FailureNone {
		m.metricInc(MetricRevokeFailure)
		if res.Failure == flows.FailureStore {
			m.logger.Error("revocation write failed",
				zap.String("op", opRevoke),
				zap.Int64("sub", userID),
				zap.String("jti", tokenID),
				zap.Error(res.Err),
			)
		} else {
			m.logRejection(opRevoke, userID, tokenID, res.Failure, res.Err)
		}
		err := m.failure(opRevoke, res.Failure, res.Err)
		m.emitAudit(ctx, auditEventTokenRevoked, false, userID, tokenID, err, nil)
		return err
	}

	if res.AccessSkipped != nil {
		m.logger.Debug("access token left untouched on revoke",
			zap.String("op", opRevoke),
			zap.Int64("sub", userID),
			zap.NamedError("reason", res.AccessSkipped),
		)
	}
	if res.AccessRevoked {
		m.metricInc(MetricAccessRevoked)
	}

	m.metricInc(MetricRevokeSuccess)
	m.emitAudit(ctx, auditEventTokenRevoked, true, userID, tokenID, nil, func() map[string]string {
		md := map[string]string{}
		if res.AlreadyExpired {
			md["already_expired"] = "true"
		}
		if res.AccessRevoked {
			md["access_revoked"] = "true"
		}
		if len(md) == 0 {
			return nil
		}
		return md
	})
	return nil
}

// RevokeAccess blacklists a single access token for the rest of its lifetime. An
// expired token is already unusable and the call succeeds without writing.
func (m *Manager) RevokeAccess(ctx context.Context, accessToken string) error {
	res := m.flows.RevokeAccess(ctx, accessToken)
	var userID int64
	if res.Claims != nil {
		userID = res.Claims.UserID
	}

	if res.Failure != flows.FailureNone {
		m.metricInc(MetricRevokeFailure)
		m.logRejection(opRevokeAccess, userID, "", res.Failure, res.Err)
		err := m.failure(opRevokeAccess, res.Failure, res.Err)
		m.emitAudit(ctx, auditEventAccessRevoked, false, userID, "", err, nil)
		return err
	}

	if !res.AlreadyExpired {
		m.metricInc(MetricAccessRevoked)
	}
	m.emitAudit(ctx, auditEventAccessRevoked, true, userID, "", nil, nil)
	return nil
}

// Ping checks that the revocation store is reachable and returns its round-trip
// latency.
func (m *Manager) Ping(ctx context.Context) (time.Duration, error) {
	d, err := m.store.Ping(ctx)
	if err != nil {
		m.metricInc(MetricStoreUnavailable)
		return d, newError(KindStoreUnavailable, opPing, err)
	}
	return d, nil
}

// failure maps a flow outcome onto the public error taxonomy.
func (m *Manager) failure(op string, kind flows.FailureKind, cause error) error {
	switch kind {
	case flows.FailureExpired:
		return newError(KindExpired, op, nil)
	case flows.FailureStore:
		m.metricInc(MetricStoreUnavailable)
		return newError(KindStoreUnavailable, op, cause)
	case flows.FailureEncoding:
		return newError(KindEncoding, op, cause)
	default:
		return newError(KindInvalidToken, op, nil)
	}
}

// logRejection records the cause that the returned error deliberately hides.
func (m *Manager) logRejection(op string, userID int64, tokenID string, kind flows.FailureKind, cause error) {
	if kind == flows.FailureStore {
		m.logger.Error("token store unavailable",
			zap.String("op", op),
			zap.Int64("sub", userID),
			zap.String("jti", tokenID),
			zap.Error(cause),
		)
		return
	}
	if ce := m.logger.Check(zap.DebugLevel, "token rejected"); ce != nil {
		ce.Write(
			zap.String("op", op),
			zap.Int64("sub", userID),
			zap.String("jti", tokenID),
			zap.String("reason", kind.String()),
			zap.Error(cause),
		)
	}
}

func refreshIdentity(c *jwt.RefreshClaims) (int64, string) {
	if c == nil {
		return 0, ""
	}
	return c.UserID, c.TokenID()
}

func pairFromIssue(res flows.IssueResult) TokenPair {
	return TokenPair{
		AccessToken:      res.AccessToken,
		RefreshToken:     res.RefreshToken,
		AccessExpiresAt:  res.AccessExpiresAt,
		RefreshExpiresAt: res.RefreshExpiresAt,
	}
}
