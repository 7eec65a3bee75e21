package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker provides advisory locks for critical sections. Locks are
// best-effort with a TTL; a crashed holder releases by expiry.
type Locker interface {
	// Acquire takes the lock if free. Returns false when already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the lock.
	Release(ctx context.Context, key string) error
}

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

// InvoiceKey builds the lock key guarding invoice creation for one
// (customer, plan) pair.
func InvoiceKey(customerID, planID string) string {
	return fmt.Sprintf("billing:invoice:%s:%s:lock", customerID, planID)
}

// RolloverKey builds the lock key guarding the monthly rollover of one enrollment.
func RolloverKey(enrollmentID string) string {
	return fmt.Sprintf("billing:rollover:%s:lock", enrollmentID)
}
