// Package internal holds helpers private to goToken: token identifier generation and
// signing-key encoding.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher and Sink implementations)
//   - flows: issue, verify, refresh, and revoke protocols over narrow interfaces
//   - envconfig: viper-backed settings shared by the demo server and the loadtest CLI
package internal
