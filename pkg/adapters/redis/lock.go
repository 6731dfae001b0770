package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/waypoint/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
)

// Locker implements ports.DistributedLocker using Redis SET NX with a polling retry.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock acquires a distributed lock for key, polling until it is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	// The token lets unlock release only a lock this call still owns.
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	ok, err := l.tryLock(ctx, lockKey, val, ttl)
	if err != nil {
		return nil, err
	}
	if ok {
		return l.unlocker(lockKey, val), nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			ok, err := l.tryLock(ctx, lockKey, val, ttl)
			if err != nil {
				return nil, err
			}
			if ok {
				return l.unlocker(lockKey, val), nil
			}
		}
	}
}

func (l *Locker) tryLock(ctx context.Context, lockKey, val string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLockAcquire, err)
	}
	return ok, nil
}

var unlockScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

func (l *Locker) unlocker(lockKey, val string) ports.UnlockFunc {
	return func(ctx context.Context) error {
		return unlockScript.Run(ctx, l.client, []string{lockKey}, val).Err()
	}
}
