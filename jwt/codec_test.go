package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T, mutate func(*Config)) *Codec {
	t.Helper()
	cfg := Config{
		SigningKey: testKey,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewCodec(cfg)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func TestNewCodecRejectsBadConfig(t *testing.T) {
	cases := []Config{
		{SigningKey: []byte("short"), AccessTTL: time.Minute, RefreshTTL: time.Hour},
		{SigningKey: testKey, AccessTTL: 0, RefreshTTL: time.Hour},
		{SigningKey: testKey, AccessTTL: time.Minute, RefreshTTL: -time.Hour},
		{SigningKey: testKey, AccessTTL: time.Minute, RefreshTTL: time.Hour, Leeway: 5 * time.Minute},
	}
	for i, cfg := range cases {
		if _, err := NewCodec(cfg); err == nil {
			t.Fatalf("case %d: expected config error", i)
		}
	}
}

func TestAccessRoundTrip(t *testing.T) {
	c := newTestCodec(t, nil)
	now := c.Now()

	token, err := c.Sign(c.NewAccessClaims(42, now))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := c.ParseAccess(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected subject 42, got %d", claims.UserID)
	}
	if claims.TokenType != TypeAccess {
		t.Fatalf("expected access type, got %q", claims.TokenType)
	}
	if got := claims.ExpiresAtTime().Sub(claims.IssuedAt.Time); got != 15*time.Minute {
		t.Fatalf("expected 15m lifetime, got %v", got)
	}
}

func TestRefreshRoundTripCarriesTokenID(t *testing.T) {
	c := newTestCodec(t, nil)

	token, err := c.Sign(c.NewRefreshClaims(7, "jti-1", c.Now()))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := c.ParseRefresh(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.TokenID() != "jti-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsWrongTokenType(t *testing.T) {
	c := newTestCodec(t, nil)
	now := c.Now()

	access, _ := c.Sign(c.NewAccessClaims(1, now))
	refresh, _ := c.Sign(c.NewRefreshClaims(1, "jti", now))

	if _, err := c.ParseRefresh(access); !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType for access-as-refresh, got %v", err)
	}
	if _, err := c.ParseAccess(refresh); !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType for refresh-as-access, got %v", err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	c := newTestCodec(t, nil)
	other := newTestCodec(t, func(cfg *Config) {
		cfg.SigningKey = []byte("ffffffffffffffffffffffffffffffff")
	})

	token, err := other.Sign(other.NewAccessClaims(1, other.Now()))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.ParseAccess(token); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestParseRejectsForeignAlgorithm(t *testing.T) {
	c := newTestCodec(t, nil)
	claims := c.NewAccessClaims(1, c.Now())

	hs512, err := gjwt.NewWithClaims(gjwt.SigningMethodHS512, claims).SignedString(testKey)
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	if _, err := c.ParseAccess(hs512); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected hs512 token to be rejected as invalid signature, got %v", err)
	}

	none, err := gjwt.NewWithClaims(gjwt.SigningMethodNone, claims).SignedString(gjwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := c.ParseAccess(none); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	c := newTestCodec(t, nil)
	past := c.Now().Add(-8 * 24 * time.Hour)

	token, err := c.Sign(c.NewRefreshClaims(1, "jti", past))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.ParseRefresh(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParseExpiredWithBadSignatureReportsSignature(t *testing.T) {
	c := newTestCodec(t, nil)
	other := newTestCodec(t, func(cfg *Config) {
		cfg.SigningKey = []byte("ffffffffffffffffffffffffffffffff")
	})

	token, _ := other.Sign(other.NewAccessClaims(1, other.Now().Add(-time.Hour)))
	if _, err := c.ParseAccess(token); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected signature failure to win over expiry, got %v", err)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	c := newTestCodec(t, nil)
	for _, in := range []string{"", "not-a-jwt", "a.b.c", strings.Repeat("x", 64)} {
		if _, err := c.ParseAccess(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("input %q: expected ErrMalformed, got %v", in, err)
		}
	}
}

func TestParseRefreshRequiresTokenID(t *testing.T) {
	c := newTestCodec(t, nil)
	token, _ := c.Sign(c.NewRefreshClaims(1, "", c.Now()))
	if _, err := c.ParseRefresh(token); !errors.Is(err, ErrInvalidClaims) {
		t.Fatalf("expected ErrInvalidClaims for missing jti, got %v", err)
	}
}

func TestIssuerAudienceAndLeeway(t *testing.T) {
	c := newTestCodec(t, func(cfg *Config) {
		cfg.Issuer = "gotoken"
		cfg.Audience = "api"
		cfg.Leeway = 30 * time.Second
	})
	foreign := newTestCodec(t, func(cfg *Config) {
		cfg.Issuer = "other"
		cfg.Audience = "api"
	})

	ok, _ := c.Sign(c.NewAccessClaims(1, c.Now()))
	if _, err := c.ParseAccess(ok); err != nil {
		t.Fatalf("expected valid token: %v", err)
	}

	bad, _ := foreign.Sign(foreign.NewAccessClaims(1, foreign.Now()))
	if _, err := c.ParseAccess(bad); !errors.Is(err, ErrInvalidClaims) {
		t.Fatalf("expected issuer mismatch to fail, got %v", err)
	}

	// Expired 15s ago, inside the 30s leeway.
	within := c.NewAccessClaims(1, c.Now().Add(-15*time.Minute-15*time.Second))
	withinTok, _ := c.Sign(within)
	if _, err := c.ParseAccess(withinTok); err != nil {
		t.Fatalf("expected token within leeway to pass: %v", err)
	}
}

func TestInjectedClockDrivesExpiry(t *testing.T) {
	now := time.Now()
	c := newTestCodec(t, func(cfg *Config) {
		cfg.Now = func() time.Time { return now }
	})
	token, _ := c.Sign(c.NewAccessClaims(1, now))

	now = now.Add(16 * time.Minute)
	if _, err := c.ParseAccess(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired after clock advance, got %v", err)
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	c := newTestCodec(t, nil)
	if got := c.Remaining(c.Now().Add(-time.Hour)); got != 0 {
		t.Fatalf("expected 0 remaining for past expiry, got %v", got)
	}
	if got := c.Remaining(c.Now().Add(time.Hour)); got <= 59*time.Minute || got > time.Hour {
		t.Fatalf("unexpected remaining %v", got)
	}
}

func TestRemainingCoversLeeway(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := newTestCodec(t, func(cfg *Config) {
		cfg.Leeway = 30 * time.Second
		cfg.Now = func() time.Time { return now }
	})
	token, _ := c.Sign(c.NewAccessClaims(1, now))
	exp := now.Add(15 * time.Minute)

	if got := c.Remaining(exp); got != 15*time.Minute+30*time.Second {
		t.Fatalf("expected remaining to include leeway, got %v", got)
	}

	// Past exp but inside leeway: still accepted, so still needs a positive TTL.
	now = exp.Add(10 * time.Second)
	if _, err := c.ParseAccess(token); err != nil {
		t.Fatalf("expected token inside leeway to parse: %v", err)
	}
	if got := c.Remaining(exp); got != 20*time.Second {
		t.Fatalf("expected 20s remaining inside leeway, got %v", got)
	}

	now = exp.Add(31 * time.Second)
	if _, err := c.ParseAccess(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired past leeway, got %v", err)
	}
	if got := c.Remaining(exp); got != 0 {
		t.Fatalf("expected 0 remaining past leeway, got %v", got)
	}
}
