package goToken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goToken/jwt"
	"github.com/MrEthical07/goToken/revocation"
)

// Config defines every externally supplied setting of the Manager.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	JWT     JWTConfig
	Store   StoreConfig
	Policy  PolicyConfig
	Metrics MetricsConfig
	Audit   AuditConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig holds the single static signing secret and token lifetimes.
type JWTConfig struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Audience   string
	Leeway     time.Duration
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig controls the revocation key namespace.
type StoreConfig struct {
	AllowListPrefix string
	BlacklistPrefix string
}

/*
====================================
POLICY CONFIG
====================================
*/

// IssuePolicy decides what Issue does when the allow-list write fails.
type IssuePolicy int

const (
	// IssueTransactional fails the issuance with ErrStoreUnavailable.
	IssueTransactional IssuePolicy = iota
	// IssueBestEffort logs the failure and still returns the pair. The returned
	// refresh token cannot be exchanged because it was never allow-listed.
	IssueBestEffort
)

func (p IssuePolicy) String() string {
	switch p {
	case IssueTransactional:
		return "transactional"
	case IssueBestEffort:
		return "best_effort"
	default:
		return "unknown"
	}
}

// FailurePolicy decides how VerifyAccess treats an unreachable blacklist.
type FailurePolicy int

const (
	// FailClosed returns ErrStoreUnavailable.
	FailClosed FailurePolicy = iota
	// FailOpen logs and falls back to signature and expiry checks only.
	FailOpen
)

func (p FailurePolicy) String() string {
	switch p {
	case FailClosed:
		return "fail_closed"
	case FailOpen:
		return "fail_open"
	default:
		return "unknown"
	}
}

// ParseIssuePolicy maps a configuration string onto an IssuePolicy.
func ParseIssuePolicy(s string) (IssuePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "transactional":
		return IssueTransactional, nil
	case "best_effort", "best-effort":
		return IssueBestEffort, nil
	default:
		return 0, fmt.Errorf("unknown issue policy %q", s)
	}
}

// ParseFailurePolicy maps a configuration string onto a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail_closed", "closed":
		return FailClosed, nil
	case "fail_open", "open":
		return FailOpen, nil
	default:
		return 0, fmt.Errorf("unknown failure policy %q", s)
	}
}

// PolicyConfig records the deployment's store-failure policies.
type PolicyConfig struct {
	Issue          IssuePolicy
	BlacklistCheck FailurePolicy
}

/*
====================================
METRICS / AUDIT CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DefaultConfig returns production defaults. SigningKey is left empty and must be
// supplied.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			AllowListPrefix: revocation.DefaultAllowListPrefix,
			BlacklistPrefix: revocation.DefaultBlacklistPrefix,
		},
		Policy: PolicyConfig{
			Issue:          IssueTransactional,
			BlacklistCheck: FailClosed,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.SigningKey) < jwt.MinSigningKeySize {
		return fmt.Errorf("JWT SigningKey must be at least %d bytes", jwt.MinSigningKeySize)
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT RefreshTTL must be > 0")
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return errors.New("JWT AccessTTL must be shorter than RefreshTTL")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be within [0, 2m]")
	}

	// Store
	if c.Store.AllowListPrefix == "" || c.Store.BlacklistPrefix == "" {
		return errors.New("Store prefixes must be non-empty")
	}
	if c.Store.AllowListPrefix == c.Store.BlacklistPrefix {
		return errors.New("Store AllowListPrefix and BlacklistPrefix must differ")
	}

	// Policy
	switch c.Policy.Issue {
	case IssueTransactional, IssueBestEffort:
	default:
		return errors.New("Policy Issue is invalid")
	}
	switch c.Policy.BlacklistCheck {
	case FailClosed, FailOpen:
	default:
		return errors.New("Policy BlacklistCheck is invalid")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.SigningKey = cloneBytes(cfg.JWT.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
