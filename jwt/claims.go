package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType tags a claim set so one kind of token can never stand in for the other.
type TokenType string

const (
	// TypeAccess marks short-lived request credentials.
	TypeAccess TokenType = "access"
	// TypeRefresh marks single-use rotation credentials.
	TypeRefresh TokenType = "refresh"
)

// AccessClaims is the payload of an access token. Its jti, when set, is the jti of the
// refresh token issued alongside it; it is informational and never looked up, so
// revocation is only possible through the blacklist.
type AccessClaims struct {
	UserID    int64     `json:"sub"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. The registered jti claim holds the
// allow-list key.
type RefreshClaims struct {
	UserID    int64     `json:"sub"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenID returns the jti used as the allow-list key.
func (c *RefreshClaims) TokenID() string {
	return c.ID
}

// ExpiresAtTime returns the expiry as a time.Time, or the zero time when absent.
func (c *AccessClaims) ExpiresAtTime() time.Time {
	return numericTime(c.ExpiresAt)
}

// ExpiresAtTime returns the expiry as a time.Time, or the zero time when absent.
func (c *RefreshClaims) ExpiresAtTime() time.Time {
	return numericTime(c.ExpiresAt)
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

func (c *AccessClaims) tokenType() TokenType  { return c.TokenType }
func (c *RefreshClaims) tokenType() TokenType { return c.TokenType }

// Claims is the closed set of claim types the codec signs: *AccessClaims and
// *RefreshClaims.
type Claims interface {
	jwt.Claims
	tokenType() TokenType
}
