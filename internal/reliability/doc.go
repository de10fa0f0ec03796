// Package reliability provides the retry policies and circuit breaker used by
// the retry and circuit-breaker interceptors.
//
//   - Retry policies: exponential backoff and fixed delay, with errors
//     classified as retryable unless they say otherwise
//   - Circuit breaker: fails calls fast after repeated failures and probes
//     again after a cooldown
//
// All types are safe for concurrent use.
package reliability
