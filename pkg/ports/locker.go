package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes writers to the same snapshot ID across replicas.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The returned UnlockFunc must be called to release it; the lock expires after ttl regardless.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
