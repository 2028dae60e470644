package locker

import "context"

// Locker provides mutual exclusion keyed by an opaque string.
//
// TryAcquire never blocks: it reports whether the caller now holds the key.
// A false return means another execution is in flight and the caller must
// reject its request; there is no queueing and no retry inside the lock.
// Release is idempotent and safe to call for keys that were never acquired.
type Locker interface {
	// TryAcquire atomically claims key. Returns false without error when the
	// key is already held. An empty key is a programming error and returns
	// ErrEmptyKey.
	TryAcquire(ctx context.Context, key string) (bool, error)

	// Release frees key. Releasing an unheld key is a no-op.
	Release(ctx context.Context, key string) error
}
