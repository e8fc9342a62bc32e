package quota

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

// CounterStore is the shared counter collaborator. Incr must be atomic
// across concurrent callers for the same key: every caller observes a
// distinct post-increment value.
type CounterStore interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	AddUser(ctx context.Context, key, member string, ttl time.Duration) error
}

// RedisCounterStore keeps the daily limit counters and the approximate
// per-day distinct-user sets in redis.
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (rc *RedisCounterStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	value, err := rc.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, errors.Annotatef(err, "cannot increment %s", key)
	}

	// Only the first increment of the day sets the expiry.
	if value == 1 {
		rc.client.Expire(ctx, key, ttl)
	}

	return value, nil
}

func (rc *RedisCounterStore) AddUser(ctx context.Context, key, member string, ttl time.Duration) error {
	added, err := rc.client.PFAdd(ctx, key, member).Result()
	if err != nil {
		return errors.Annotatef(err, "cannot add to %s", key)
	}

	if added > 0 {
		rc.client.ExpireNX(ctx, key, ttl)
	}

	return nil
}

// MemoryCounterStore is a CounterStore for tests and local development.
// The mutex gives it the same atomicity contract as redis.
type MemoryCounterStore struct {
	mutex  sync.Mutex
	values map[string]int64
	users  map[string]map[string]struct{}
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		values: make(map[string]int64),
		users:  make(map[string]map[string]struct{}),
	}
}

// Set seeds a counter, bypassing increment semantics.
func (mc *MemoryCounterStore) Set(key string, value int64) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.values[key] = value
}

func (mc *MemoryCounterStore) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.values[key]++

	return mc.values[key], nil
}

func (mc *MemoryCounterStore) AddUser(_ context.Context, key, member string, _ time.Duration) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	members, ok := mc.users[key]
	if !ok {
		members = make(map[string]struct{})
		mc.users[key] = members
	}
	members[member] = struct{}{}

	return nil
}

// Value returns the current counter value for a key.
func (mc *MemoryCounterStore) Value(key string) int64 {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	return mc.values[key]
}

// Users returns the distinct members recorded for a key.
func (mc *MemoryCounterStore) Users(key string) int {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	return len(mc.users[key])
}
