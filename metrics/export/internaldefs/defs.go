package internaldefs

import (
	goToken "github.com/MrEthical07/goToken"
)

// CounterDef binds a lifecycle counter to its exported name.
type CounterDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// HistogramDef binds a latency histogram to its exported name.
type HistogramDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: goToken.MetricIssueSuccess, Name: "gotoken_issue_success_total", Help: "Token pairs issued."},
	{ID: goToken.MetricIssueFailure, Name: "gotoken_issue_failure_total", Help: "Failed issue operations."},
	{ID: goToken.MetricIssueAllowListDegraded, Name: "gotoken_issue_allowlist_degraded_total", Help: "Pairs issued under best-effort without an allow-list entry."},
	{ID: goToken.MetricVerifySuccess, Name: "gotoken_verify_success_total", Help: "Accepted token verifications."},
	{ID: goToken.MetricVerifyFailure, Name: "gotoken_verify_failure_total", Help: "Rejected token verifications."},
	{ID: goToken.MetricVerifyBlacklisted, Name: "gotoken_verify_blacklisted_total", Help: "Verifications rejected by the blacklist."},
	{ID: goToken.MetricVerifyFailOpen, Name: "gotoken_verify_fail_open_total", Help: "Access verifications that skipped an unreachable blacklist."},
	{ID: goToken.MetricRefreshSuccess, Name: "gotoken_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: goToken.MetricRefreshFailure, Name: "gotoken_refresh_failure_total", Help: "Failed refresh rotations."},
	{ID: goToken.MetricRefreshReuseDetected, Name: "gotoken_refresh_reuse_detected_total", Help: "Refresh attempts with an already consumed token."},
	{ID: goToken.MetricRevokeSuccess, Name: "gotoken_revoke_success_total", Help: "Successful revocations."},
	{ID: goToken.MetricRevokeFailure, Name: "gotoken_revoke_failure_total", Help: "Failed revocations."},
	{ID: goToken.MetricAccessRevoked, Name: "gotoken_access_revoked_total", Help: "Access tokens blacklisted."},
	{ID: goToken.MetricStoreUnavailable, Name: "gotoken_store_unavailable_total", Help: "Operations that failed on the revocation store."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goToken.MetricVerifyLatency, Name: "gotoken_verify_latency_seconds", Help: "Access verification latency."},
}

// HistogramBounds are the upper bounds in seconds, in Prometheus le format.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds for instrument names that cannot carry dots.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
