// Package interceptors provides built-in cross-cutting hooks for members of
// intercepted instances.
//
// Every interceptor implements Interceptor and attaches itself to one member
// through a hooks.Builder. Method-level interceptors wrap invocation; member
// interceptors observe or rewrite reads and writes.
//
// Built-in interceptors:
//   - LoggingInterceptor: logs calls with timing information
//   - MetricsInterceptor: reports call counts, durations and errors
//   - TracingInterceptor: opens an OpenTelemetry span per call
//   - CircuitBreakerInterceptor: fails calls fast after repeated errors
//   - RetryInterceptor: retries failing synchronous calls
//   - MemoizeInterceptor: caches results per instance and arguments
//   - ValidationInterceptor: rejects invalid writes
//   - ShortCircuitInterceptor: replaces a read value and stops the get chain
//   - AuditInterceptor: journals member writes
//
// Example usage:
//
//	b := hooks.MustTo(accountType)
//	regs, err := interceptors.Attach(b, "Withdraw",
//		interceptors.NewLoggingInterceptor(logger),
//		interceptors.NewRetryInterceptor(reliability.NewFixedDelay(10*time.Millisecond, 3)),
//	)
//
// Interceptors attached at the same priority run in the order given, the
// first one outermost.
package interceptors
