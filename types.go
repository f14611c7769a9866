package goToken

import (
	"time"

	"github.com/MrEthical07/goToken/jwt"
)

// TokenPair is what Issue and Refresh hand back to the caller. Expiry times let a
// session boundary size its cookies without decoding the tokens.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// AccessClaims is the verified payload of an access token.
type AccessClaims = jwt.AccessClaims

// RefreshClaims is the verified payload of a refresh token.
type RefreshClaims = jwt.RefreshClaims
