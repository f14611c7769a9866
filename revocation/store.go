package revocation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable wraps every transport or backing-store failure.
var ErrStoreUnavailable = errors.New("revocation store unavailable")

// ErrInvalidTTL is returned when a write is requested with a non-positive TTL.
var ErrInvalidTTL = errors.New("revocation entry ttl must be positive")

const (
	// DefaultAllowListPrefix namespaces refresh-token allow-list keys.
	DefaultAllowListPrefix = "allowlist:"
	// DefaultBlacklistPrefix namespaces blacklisted token keys.
	DefaultBlacklistPrefix = "blacklist:"

	blacklistSentinel = "1"
)

// ConsumeResult reports the outcome of an atomic refresh consumption.
type ConsumeResult int

const (
	// ConsumeOK means the token was allow-listed and has now been blacklisted and
	// removed from the allow-list.
	ConsumeOK ConsumeResult = iota
	// ConsumeBlacklisted means the token was already on the blacklist.
	ConsumeBlacklisted
	// ConsumeNotAllowed means the token id was not (or no longer) allow-listed.
	ConsumeNotAllowed
)

func (r ConsumeResult) String() string {
	switch r {
	case ConsumeOK:
		return "ok"
	case ConsumeBlacklisted:
		return "blacklisted"
	case ConsumeNotAllowed:
		return "not_allowed"
	default:
		return "unknown"
	}
}

const consumeRefreshScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 1
end
if redis.call("EXISTS", KEYS[2]) == 0 then
  return 2
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
redis.call("DEL", KEYS[2])
return 0
`

var consumeRefreshLua = redis.NewScript(consumeRefreshScript)

// Store is a thin semantic wrapper over a TTL-capable Redis client.
//
// Store holds no mutable state of its own and is safe for concurrent use.
type Store struct {
	redis           redis.UniversalClient
	allowPrefix     string
	blacklistPrefix string
}

// NewStore creates a [Store] on the given client. Empty prefixes fall back to
// [DefaultAllowListPrefix] and [DefaultBlacklistPrefix].
func NewStore(client redis.UniversalClient, allowPrefix, blacklistPrefix string) *Store {
	if allowPrefix == "" {
		allowPrefix = DefaultAllowListPrefix
	}
	if blacklistPrefix == "" {
		blacklistPrefix = DefaultBlacklistPrefix
	}
	return &Store{
		redis:           client,
		allowPrefix:     allowPrefix,
		blacklistPrefix: blacklistPrefix,
	}
}

// AllowKey returns the Redis key holding the allow-list entry for tokenID.
func (s *Store) AllowKey(tokenID string) string {
	return s.allowPrefix + tokenID
}

// BlacklistKey returns the Redis key holding the blacklist entry for token.
func (s *Store) BlacklistKey(token string) string {
	return s.blacklistPrefix + token
}

// Allow upserts the allow-list entry for tokenID. Calling it again refreshes the value
// and TTL.
//
//	Performance: 1 Redis SET.
func (s *Store) Allow(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if err := s.redis.Set(ctx, s.AllowKey(tokenID), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Disallow deletes the allow-list entry. Deleting an absent key is not an error.
//
//	Performance: 1 Redis DEL.
func (s *Store) Disallow(ctx context.Context, tokenID string) error {
	if err := s.redis.Del(ctx, s.AllowKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// IsAllowed reports whether tokenID is still allow-listed.
//
//	Performance: 1 Redis EXISTS.
func (s *Store) IsAllowed(ctx context.Context, tokenID string) (bool, error) {
	return s.exists(ctx, s.AllowKey(tokenID))
}

// AllowedUser returns the user id stored under tokenID, or false when absent.
func (s *Store) AllowedUser(ctx context.Context, tokenID string) (int64, bool, error) {
	raw, err := s.redis.Get(ctx, s.AllowKey(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: corrupt allow-list value", ErrStoreUnavailable)
	}
	return userID, true, nil
}

// Blacklist records token as revoked for ttl. Re-blacklisting is idempotent.
//
//	Performance: 1 Redis SET.
func (s *Store) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if err := s.redis.Set(ctx, s.BlacklistKey(token), blacklistSentinel, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// IsBlacklisted reports whether token has been explicitly revoked.
//
//	Performance: 1 Redis EXISTS.
func (s *Store) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	return s.exists(ctx, s.BlacklistKey(token))
}

// ConsumeRefresh atomically checks and revokes a refresh token: it fails if token is
// blacklisted or tokenID is not allow-listed, otherwise it blacklists token for ttl and
// then removes the allow-list entry.
//
//	Performance: 1 Lua EVALSHA.
//	Security: the whole check-then-act runs server-side, so at most one caller per
//	token observes ConsumeOK.
func (s *Store) ConsumeRefresh(ctx context.Context, token, tokenID string, ttl time.Duration) (ConsumeResult, error) {
	if ttl <= 0 {
		return 0, ErrInvalidTTL
	}
	ms := ttl.Milliseconds()
	if ms <= 0 {
		ms = 1
	}

	code, err := consumeRefreshLua.Run(
		ctx,
		s.redis,
		[]string{s.BlacklistKey(token), s.AllowKey(tokenID)},
		blacklistSentinel,
		ms,
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	switch ConsumeResult(code) {
	case ConsumeOK, ConsumeBlacklisted, ConsumeNotAllowed:
		return ConsumeResult(code), nil
	default:
		return 0, fmt.Errorf("%w: unknown consume script status %d", ErrStoreUnavailable, code)
	}
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return time.Since(start), nil
}

func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n == 1, nil
}
