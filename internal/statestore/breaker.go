package statestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerStore wraps a Store with a circuit breaker so that a flapping
// backend fails fast instead of tying up every caller in timeouts. Breaker
// rejections surface as ErrRead/ErrWrite, keeping the poller's failure
// accounting uniform.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker
}

func NewBreakerStore(inner Store, consecutiveFailures int, openFor time.Duration) *BreakerStore {
	if consecutiveFailures <= 0 {
		consecutiveFailures = 5
	}
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "state-store",
		Timeout: openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(consecutiveFailures)
		},
	})
	return &BreakerStore{inner: inner, cb: cb}
}

func (b *BreakerStore) Get(ctx context.Context, path string) (any, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.inner.Get(ctx, path)
	})
	if err != nil {
		if errors.Is(err, ErrRead) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return out, nil
}

func (b *BreakerStore) Set(ctx context.Context, path string, value any) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Set(ctx, path, value)
	})
	if err != nil {
		if errors.Is(err, ErrWrite) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
