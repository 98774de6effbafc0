package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// ErrLocked is returned by TryLock when the lock is already held
var ErrLocked = errors.New("lock is already held")

const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// TryLock acquires the lock named key with SET NX. The returned unlock
// function releases it only while this holder's token is still stored.
func (r *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, oops.With("key", key, "context", "failed to acquire lock").Wrap(err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		// Released with a fresh context so a cancelled run still unlocks
		_ = r.client.Eval(context.Background(), unlockScript, []string{key}, token).Err()
	}, nil
}
