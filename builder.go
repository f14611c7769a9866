package goToken

import (
	"errors"
	"time"

	"github.com/MrEthical07/goToken/internal"
	internalaudit "github.com/MrEthical07/goToken/internal/audit"
	"github.com/MrEthical07/goToken/internal/flows"
	"github.com/MrEthical07/goToken/jwt"
	"github.com/MrEthical07/goToken/revocation"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder assembles a [Manager]. A Builder is single-use: Build may succeed only once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	logger    *zap.Logger
	auditSink AuditSink
	now       func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration. cfg is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the client backing the allow-list and blacklist. Any
// redis.UniversalClient works: single node, cluster or failover.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSigningKey sets the HS256 secret. key is copied.
func (b *Builder) WithSigningKey(key []byte) *Builder {
	b.config.JWT.SigningKey = cloneBytes(key)
	return b
}

// WithLogger sets the structured logger. Without one the Manager logs nothing.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets where audit events go. It only takes effect when
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

func (b *Builder) WithIssuePolicy(p IssuePolicy) *Builder {
	b.config.Policy.Issue = p
	return b
}

func (b *Builder) WithBlacklistCheckPolicy(p FailurePolicy) *Builder {
	b.config.Policy.BlacklistCheck = p
	return b
}

// WithClock overrides the time source used for issuing and validating tokens.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration and returns a ready Manager. It performs no
// network I/O; use [Manager.Ping] to probe the store.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := jwt.NewCodec(jwt.Config{
		SigningKey: cfg.JWT.SigningKey,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		Leeway:     cfg.JWT.Leeway,
		Now:        b.now,
	})
	if err != nil {
		return nil, err
	}

	store := revocation.NewStore(b.redis, cfg.Store.AllowListPrefix, cfg.Store.BlacklistPrefix)

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("gotoken")

	m := &Manager{
		config: cfg,
		codec:  codec,
		store:  store,
		flows: flows.New(flows.Deps{
			Codec:             codec,
			Store:             store,
			NewTokenID:        internal.NewTokenID,
			IssueBestEffort:   cfg.Policy.Issue == IssueBestEffort,
			BlacklistFailOpen: cfg.Policy.BlacklistCheck == FailOpen,
		}),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
		logger:  logger,
	}

	logger.Info("token manager ready",
		zap.Duration("access_ttl", cfg.JWT.AccessTTL),
		zap.Duration("refresh_ttl", cfg.JWT.RefreshTTL),
		zap.Stringer("issue_policy", cfg.Policy.Issue),
		zap.Stringer("blacklist_check_policy", cfg.Policy.BlacklistCheck),
	)

	b.built = true
	return m, nil
}
