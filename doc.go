// Package goToken manages the lifecycle of JWT access/refresh token pairs: it issues
// them, verifies them, rotates refresh tokens exactly once, and revokes them through
// a Redis-backed allow-list and blacklist.
//
// A [Manager] is built once with [Builder.Build] and is safe to call from many
// goroutines. It keeps no per-user state in memory, so any number of processes can
// share one Redis deployment.
//
// # Revocation model
//
// Refresh tokens carry a random jti. The jti is allow-listed at issuance and removed
// when the token is rotated or revoked; the token string itself is blacklisted for
// the rest of its lifetime. Access tokens are stateless and can only be revoked by
// blacklisting. Every store entry expires together with the token it describes.
//
// # Errors
//
// Every operation returns either nil or an [*Error] whose kind is one of
// [ErrInvalidToken], [ErrExpired], [ErrStoreUnavailable] or [ErrEncoding]. Match
// with errors.Is. Rejection causes are logged, never returned.
//
// # What this package must NOT do
//
//   - Authenticate users. Issue trusts the user id it is given.
//   - Log or audit token strings.
//   - Own the Redis client lifecycle.
package goToken
