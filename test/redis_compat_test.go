//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"testing"

	goToken "github.com/MrEthical07/goToken"
)

// TestRedisCompat_Lifecycle runs issue, rotate, replay, and revoke on every backend.
func TestRedisCompat_Lifecycle(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			m := newManager(t, mode.setup(t))
			ctx := context.Background()

			pair, err := m.Issue(ctx, 11)
			if err != nil {
				t.Fatalf("issue: %v", err)
			}
			if _, err := m.VerifyAccess(ctx, pair.AccessToken); err != nil {
				t.Fatalf("verify: %v", err)
			}

			rotated, err := m.Refresh(ctx, pair.RefreshToken)
			if err != nil {
				t.Fatalf("refresh: %v", err)
			}
			if _, err := m.Refresh(ctx, pair.RefreshToken); !errors.Is(err, goToken.ErrInvalidToken) {
				t.Fatalf("expected replay to be rejected, got %v", err)
			}

			if err := m.Revoke(ctx, rotated.RefreshToken, &rotated.AccessToken); err != nil {
				t.Fatalf("revoke: %v", err)
			}
			if _, err := m.VerifyAccess(ctx, rotated.AccessToken); !errors.Is(err, goToken.ErrInvalidToken) {
				t.Fatalf("expected revoked access token to be rejected, got %v", err)
			}
			if _, err := m.VerifyRefresh(ctx, rotated.RefreshToken); !errors.Is(err, goToken.ErrInvalidToken) {
				t.Fatalf("expected revoked refresh token to be rejected, got %v", err)
			}
		})
	}
}

// TestRedisCompat_EntriesCarryTTL checks that every key written has an expiry.
func TestRedisCompat_EntriesCarryTTL(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb := mode.setup(t)
			m := newManager(t, rdb)
			ctx := context.Background()

			pair, err := m.Issue(ctx, 12)
			if err != nil {
				t.Fatalf("issue: %v", err)
			}
			if _, err := m.Refresh(ctx, pair.RefreshToken); err != nil {
				t.Fatalf("refresh: %v", err)
			}

			keys, err := rdb.Keys(ctx, "*").Result()
			if err != nil {
				t.Fatalf("keys: %v", err)
			}
			if len(keys) == 0 {
				t.Fatal("expected revocation keys")
			}
			for _, key := range keys {
				ttl, err := rdb.PTTL(ctx, key).Result()
				if err != nil {
					t.Fatalf("pttl %s: %v", key, err)
				}
				if ttl <= 0 {
					t.Fatalf("key %s has no expiry (%v)", key, ttl)
				}
			}
		})
	}
}
