// Package locker provides the mutual-exclusion primitive that guarantees at
// most one in-flight send per mailout.
//
// The Locker interface is deliberately tiny (TryAcquire, Release) so the
// orchestrator does not care which implementation backs it:
//
//   - Memory: a process-local set, sufficient for a single instance.
//   - Redis: a conditional SET with TTL, for multi-instance deployments.
//
// TryAcquire is non-blocking by design. A caller that gets false must reject
// the request immediately; retrying is the remote caller's decision.
//
// Whether a lock is required at all is caller policy: the orchestrator only
// locks non-test mailouts, so operators can re-run test sends freely.
package locker
