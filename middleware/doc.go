// Package middleware adapts a goToken.Manager to net/http: it extracts access tokens
// from the Authorization header or a cookie, verifies them, and maps Manager errors
// onto HTTP status codes.
//
// # Guards
//
//   - [Guard] verifies the access token and injects the claims into the request context.
//   - [AccessClaimsFromContext] retrieves them in downstream handlers.
//   - [StatusForError] translates the closed error taxonomy into a status code.
//
// This package does not parse tokens itself and never touches Redis; every decision is
// delegated to the Manager.
package middleware
