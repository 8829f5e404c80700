package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// Locker defines the interface for export concurrency control.
// The exporter holds the lock for a directory/prefix/format key from the free
// name search until the file is in place, so cooperating exporters never pick
// the same index.
type Locker interface {
	// Lock blocks until the lock for key is acquired or ctx is done.
	// ttl bounds how long a crashed holder can keep the lock (implementation specific).
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
