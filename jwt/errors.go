package jwt

import "errors"

var (
	// ErrMalformed is returned when a token cannot be parsed at all.
	ErrMalformed = errors.New("token malformed")
	// ErrInvalidSignature is returned when the signature does not verify against the
	// configured secret or the header names an unexpected algorithm.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrExpired is returned when now is past the token's expiresAt.
	ErrExpired = errors.New("token expired")
	// ErrInvalidClaims covers issuer, audience, iat and nbf violations.
	ErrInvalidClaims = errors.New("token claims invalid")
	// ErrWrongType is returned when an access token is presented where a refresh token
	// is expected, or the other way round.
	ErrWrongType = errors.New("token type mismatch")
	// ErrEncoding is returned when a claim set cannot be serialized or signed.
	ErrEncoding = errors.New("token encoding failed")
)
