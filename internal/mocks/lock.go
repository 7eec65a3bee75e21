package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// NoopLocker always grants the lock. Handy for tests that do not exercise
// concurrency.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (NoopLocker) Release(ctx context.Context, key string) error {
	return nil
}
