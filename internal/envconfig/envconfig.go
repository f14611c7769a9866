// Package envconfig loads a goToken.Config and Redis connection settings from viper,
// so the demo server and the loadtest CLI read the same GOTOKEN_* variables.
package envconfig

import (
	"fmt"
	"strings"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/internal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "GOTOKEN"

// Keys.
const (
	KeySigningKey      = "jwt.signing_key"
	KeyAccessTTL       = "jwt.access_ttl"
	KeyRefreshTTL      = "jwt.refresh_ttl"
	KeyIssuer          = "jwt.issuer"
	KeyAudience        = "jwt.audience"
	KeyLeeway          = "jwt.leeway"
	KeyAllowListPrefix = "store.allowlist_prefix"
	KeyBlacklistPrefix = "store.blacklist_prefix"
	KeyIssuePolicy     = "policy.issue"
	KeyBlacklistPolicy = "policy.blacklist_check"
	KeyMetrics         = "metrics.enabled"
	KeyLatency         = "metrics.latency_histograms"
	KeyAudit           = "audit.enabled"
	KeyAuditBuffer     = "audit.buffer_size"
	KeyAuditDrop       = "audit.drop_if_full"
	KeyRedisAddr       = "redis.addr"
	KeyRedisPassword   = "redis.password"
	KeyRedisDB         = "redis.db"
	KeyLogLevel        = "log.level"
	KeyLogDevelopment  = "log.development"
)

// Settings is everything a process needs to build a Manager.
type Settings struct {
	Token goToken.Config
	// GeneratedKey is true when no signing key was configured and a random one was
	// created. Tokens will not survive a restart.
	GeneratedKey bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel       zapcore.Level
	LogDevelopment bool
}

// New returns a viper instance with GOTOKEN_ env binding and every default set.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	def := goToken.DefaultConfig()

	v.SetDefault(KeySigningKey, "")
	v.SetDefault(KeyAccessTTL, def.JWT.AccessTTL)
	v.SetDefault(KeyRefreshTTL, def.JWT.RefreshTTL)
	v.SetDefault(KeyIssuer, def.JWT.Issuer)
	v.SetDefault(KeyAudience, def.JWT.Audience)
	v.SetDefault(KeyLeeway, def.JWT.Leeway)
	v.SetDefault(KeyAllowListPrefix, def.Store.AllowListPrefix)
	v.SetDefault(KeyBlacklistPrefix, def.Store.BlacklistPrefix)
	v.SetDefault(KeyIssuePolicy, def.Policy.Issue.String())
	v.SetDefault(KeyBlacklistPolicy, def.Policy.BlacklistCheck.String())
	v.SetDefault(KeyMetrics, def.Metrics.Enabled)
	v.SetDefault(KeyLatency, def.Metrics.EnableLatencyHistograms)
	v.SetDefault(KeyAudit, def.Audit.Enabled)
	v.SetDefault(KeyAuditBuffer, def.Audit.BufferSize)
	v.SetDefault(KeyAuditDrop, def.Audit.DropIfFull)
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
}

// Load reads v into Settings and validates the token config.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings

	cfg := goToken.DefaultConfig()
	cfg.JWT.AccessTTL = v.GetDuration(KeyAccessTTL)
	cfg.JWT.RefreshTTL = v.GetDuration(KeyRefreshTTL)
	cfg.JWT.Issuer = v.GetString(KeyIssuer)
	cfg.JWT.Audience = v.GetString(KeyAudience)
	cfg.JWT.Leeway = v.GetDuration(KeyLeeway)
	cfg.Store.AllowListPrefix = v.GetString(KeyAllowListPrefix)
	cfg.Store.BlacklistPrefix = v.GetString(KeyBlacklistPrefix)
	cfg.Metrics.Enabled = v.GetBool(KeyMetrics)
	cfg.Metrics.EnableLatencyHistograms = v.GetBool(KeyLatency)
	cfg.Audit.Enabled = v.GetBool(KeyAudit)
	cfg.Audit.BufferSize = v.GetInt(KeyAuditBuffer)
	cfg.Audit.DropIfFull = v.GetBool(KeyAuditDrop)

	issue, err := goToken.ParseIssuePolicy(v.GetString(KeyIssuePolicy))
	if err != nil {
		return s, fmt.Errorf("%s: %w", KeyIssuePolicy, err)
	}
	cfg.Policy.Issue = issue

	blacklist, err := goToken.ParseFailurePolicy(v.GetString(KeyBlacklistPolicy))
	if err != nil {
		return s, fmt.Errorf("%s: %w", KeyBlacklistPolicy, err)
	}
	cfg.Policy.BlacklistCheck = blacklist

	if raw := v.GetString(KeySigningKey); raw != "" {
		key, err := internal.DecodeSigningKey(raw)
		if err != nil {
			return s, fmt.Errorf("%s: %w", KeySigningKey, err)
		}
		cfg.JWT.SigningKey = key
	} else {
		key, err := internal.NewSigningKey()
		if err != nil {
			return s, fmt.Errorf("generate signing key: %w", err)
		}
		cfg.JWT.SigningKey = key
		s.GeneratedKey = true
	}

	if err := cfg.Validate(); err != nil {
		return s, err
	}

	level, err := zapcore.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return s, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}

	s.Token = cfg
	s.RedisAddr = v.GetString(KeyRedisAddr)
	s.RedisPassword = v.GetString(KeyRedisPassword)
	s.RedisDB = v.GetInt(KeyRedisDB)
	s.LogLevel = level
	s.LogDevelopment = v.GetBool(KeyLogDevelopment)
	return s, nil
}

// Logger builds a zap logger at the configured level.
func (s Settings) Logger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if s.LogDevelopment {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(s.LogLevel)
	return cfg.Build()
}

// LogWarnings writes each Lint finding as a warning. A generated signing key is
// included in the output only when development logging is on.
func (s Settings) LogWarnings(logger *zap.Logger) {
	for _, w := range s.Token.Lint() {
		logger.Warn("config warning", zap.String("code", w.Code), zap.String("message", w.Message))
	}
	if s.GeneratedKey {
		fields := []zap.Field{
			zap.String("code", "signing_key_generated"),
			zap.String("message", "no "+EnvPrefix+"_JWT_SIGNING_KEY set; tokens will not survive a restart"),
		}
		// Development only: lets a restarted demo keep accepting earlier tokens.
		if s.LogDevelopment {
			fields = append(fields, zap.String("signing_key", "base64:"+internal.EncodeSigningKey(s.Token.JWT.SigningKey)))
		}
		logger.Warn("config warning", fields...)
	}
}
