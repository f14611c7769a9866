// Package revocation is the Redis-backed allow-list and blacklist used to enforce
// server-side revocation of otherwise self-contained JWTs.
//
// # Key layout
//
//	{allowPrefix}{tokenID} -> user id, TTL = remaining refresh lifetime
//	{blacklistPrefix}{token} -> "1",   TTL = remaining token lifetime
//
// Every entry carries a TTL bounded by the caller-supplied remaining lifetime, so no
// entry outlives the token it describes.
//
// # Atomicity
//
// Single-key operations rely on Redis per-command atomicity. [Store.ConsumeRefresh]
// runs the refresh check-and-revoke as one Lua script so concurrent exchanges of the
// same refresh token have exactly one winner.
//
// # What this package must NOT do
//
//   - Parse or verify JWTs.
//   - Swallow transport errors: every Redis failure surfaces as [ErrStoreUnavailable].
package revocation
