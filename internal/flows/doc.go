// Package flows implements the token lifecycle protocols (issue, verify, refresh,
// revoke) against narrow codec and store interfaces.
//
// Flows never log, emit metrics, or build public errors. Each returns a result value
// carrying a [FailureKind]; the root package maps that onto its error taxonomy and
// decides what to record.
package flows
