package goToken

import "time"

// LintWarning flags a configuration that is valid but risky in production.
type LintWarning struct {
	Code    string
	Message string
}

// LintWarnings is the ordered result of [Config.Lint].
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

// Lint reports risky but valid settings. It never fails; call Validate for hard
// errors.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings

	if c.JWT.Leeway > 30*time.Second {
		ws = append(ws, LintWarning{Code: "leeway_large", Message: "JWT leeway above 30s extends the life of every token and of every allow-list and blacklist entry"})
	}
	if c.JWT.AccessTTL > time.Hour {
		ws = append(ws, LintWarning{Code: "access_ttl_long", Message: "access tokens live longer than 1h; revocation relies entirely on the blacklist"})
	}
	if c.JWT.RefreshTTL > 30*24*time.Hour {
		ws = append(ws, LintWarning{Code: "refresh_ttl_long", Message: "refresh tokens live longer than 30 days"})
	}
	if c.JWT.Issuer == "" || c.JWT.Audience == "" {
		ws = append(ws, LintWarning{Code: "iss_aud_unset", Message: "issuer or audience unset; tokens from another service sharing the key are accepted"})
	}
	if c.Policy.Issue == IssueBestEffort {
		ws = append(ws, LintWarning{Code: "issue_best_effort", Message: "best-effort issuance can hand out refresh tokens that can never be exchanged"})
	}
	if c.Policy.BlacklistCheck == FailOpen {
		ws = append(ws, LintWarning{Code: "blacklist_fail_open", Message: "revoked access tokens are accepted while the store is unreachable"})
	}
	if c.Audit.Enabled && !c.Audit.DropIfFull {
		ws = append(ws, LintWarning{Code: "audit_blocking", Message: "a slow audit sink will block token operations"})
	}

	return ws
}
