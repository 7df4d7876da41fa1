// Package vortex is the Go client SDK for the Vortex invitation service. It
// owns the client-side credential lifecycle (JWT acquisition, scheduled
// renewal, exponential backoff on failure) and exposes a typed facade over
// the invitation endpoints gated by that credential.
//
// Credential lifecycle:
//   - Client holds the current JWT plus the identity decoded from it. Renew
//     exchanges the remembered renewal scope for a fresh token and arms a
//     single renewal timer; failures consult the backoff policy and retry
//     silently until the attempt ceiling, after which the error surfaces and
//     the counter resets. ClearAuth discards everything and fences any
//     response still in flight.
//   - Tokens are decoded without signature verification. A token the client
//     cannot decode stays installed and is still attached to outgoing calls;
//     only the derived identity is absent.
//
// Invitation operations:
//   - Each facade method delegates to the shared gateway and records
//     per-(operation, arguments) loading and error state under a
//     deterministic key, so concurrent calls with different arguments never
//     share UI state. Errors are recorded and returned, never swallowed.
package vortex
