// Package audit implements async dispatching of token lifecycle events.
//
// # Components
//
//   - [Sink] is the interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher] is a buffered async relay with drop-if-full or block-if-full semantics.
//   - [Event] is the structured record: timestamp, type, user, token id, IP, metadata.
//
// The package owns buffering and sink delivery only. The Manager decides which events
// to emit, and it must never put a token string into an Event.
package audit
