package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSigningKeySize is the smallest HS256 secret the codec accepts.
const MinSigningKeySize = 32

// Config defines the codec's static signing and validation parameters.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Audience   string
	Leeway     time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Codec signs and verifies claim sets with a single symmetric secret.
//
// Codec holds no mutable state and is safe for concurrent use.
type Codec struct {
	config Config
	parser *jwt.Parser
}

// NewCodec validates cfg and returns a ready codec. The signing key is copied.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.SigningKey) < MinSigningKeySize {
		return nil, fmt.Errorf("signing key must be at least %d bytes", MinSigningKeySize)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.SigningKey = append([]byte(nil), cfg.SigningKey...)

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(cfg.Now),
	}
	if cfg.Leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.Audience))
	}

	return &Codec{config: cfg, parser: jwt.NewParser(options...)}, nil
}

// Now returns the codec clock's current time.
func (c *Codec) Now() time.Time {
	return c.config.Now()
}

// AccessTTL returns the configured access-token lifetime.
func (c *Codec) AccessTTL() time.Duration {
	return c.config.AccessTTL
}

// RefreshTTL returns the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration {
	return c.config.RefreshTTL
}

// NewAccessClaims builds access claims for userID issued at now.
func (c *Codec) NewAccessClaims(userID int64, now time.Time) *AccessClaims {
	return &AccessClaims{
		UserID:           userID,
		TokenType:        TypeAccess,
		RegisteredClaims: c.registered(now, c.config.AccessTTL, ""),
	}
}

// NewRefreshClaims builds refresh claims for userID carrying tokenID as jti.
func (c *Codec) NewRefreshClaims(userID int64, tokenID string, now time.Time) *RefreshClaims {
	return &RefreshClaims{
		UserID:           userID,
		TokenType:        TypeRefresh,
		RegisteredClaims: c.registered(now, c.config.RefreshTTL, tokenID),
	}
}

func (c *Codec) registered(now time.Time, ttl time.Duration, id string) jwt.RegisteredClaims {
	rc := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    c.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if c.config.Audience != "" {
		rc.Audience = jwt.ClaimStrings{c.config.Audience}
	}
	return rc
}

// Sign serializes claims and signs them with HS256. It has no side effects.
func (c *Codec) Sign(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrEncoding
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.SigningKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return signed, nil
}

// ParseAccess verifies signature, expiry and type of an access token.
func (c *Codec) ParseAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.parse(token, claims, TypeAccess); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh verifies signature, expiry and type of a refresh token and requires a
// non-empty jti.
func (c *Codec) ParseRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.parse(token, claims, TypeRefresh); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrInvalidClaims)
	}
	return claims, nil
}

// Remaining returns how long a token expiring at exp is still accepted by the
// parser, leeway included. Store entries written with this TTL outlive the token.
// It never returns a negative duration.
func (c *Codec) Remaining(exp time.Time) time.Duration {
	d := exp.Add(c.config.Leeway).Sub(c.config.Now())
	if d < 0 {
		return 0
	}
	return d
}

func (c *Codec) parse(token string, claims Claims, want TokenType) error {
	if token == "" {
		return ErrMalformed
	}

	parsed, err := c.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return c.config.SigningKey, nil
	})
	if err != nil {
		return classify(err)
	}
	if !parsed.Valid {
		return ErrInvalidClaims
	}
	if claims.tokenType() != want {
		return ErrWrongType
	}
	return nil
}

// classify folds golang-jwt's error tree into the codec's four structural outcomes.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
}
