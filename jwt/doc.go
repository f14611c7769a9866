// Package jwt signs and verifies the access and refresh claim sets handed out by the
// token lifecycle manager, using a single static HS256 secret.
//
// # Architecture boundaries
//
// The codec is pure: it never touches the revocation store and holds no mutable state
// after construction. Signature, structure, expiry, and token-type checks happen here;
// allow-list and blacklist decisions belong to the caller.
//
// # What this package must NOT do
//
//   - Perform I/O of any kind.
//   - Import goToken, revocation, or internal packages.
//   - Log token strings.
package jwt
