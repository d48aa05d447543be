// Package cache keeps short-lived snapshots of upstream telemetry so that
// bursts of analytics requests do not page through the upstream API each time.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Store is a byte-oriented TTL store
type Store interface {
	// Get returns the value stored under key or ErrMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases the store's resources
	Close() error
}

// NoopStore never stores anything
type NoopStore struct{}

// Get always misses
func (NoopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

// Set discards the value
func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op
func (NoopStore) Delete(context.Context, string) error { return nil }

// Close is a no-op
func (NoopStore) Close() error { return nil }
