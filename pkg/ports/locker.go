package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken with DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes navigations of one session across replicas.
// The session manager takes it around each navigation, on top of its in-process lock,
// so two instances never run transitions for the same session at once.
type DistributedLocker interface {
	// Lock blocks until the lock for sessionID is held or ctx is done.
	// The lock expires after ttl if the holder dies; the caller must invoke the
	// returned UnlockFunc once its navigation has settled.
	Lock(ctx context.Context, sessionID string, ttl time.Duration) (UnlockFunc, error)
}
