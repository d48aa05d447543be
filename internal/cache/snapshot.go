package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/petdex/analytics/internal/compression"
)

// Snapshots stores JSON values in a Store, compressed and framed
type Snapshots struct {
	store      Store
	compressor compression.Compressor
	prefix     string
	ttl        time.Duration
}

// NewSnapshots wraps store. When compress is false payloads are framed but stored as is.
func NewSnapshots(store Store, prefix string, ttl time.Duration, compress bool) *Snapshots {
	var c compression.Compressor = compression.NoneCompressor{}
	if compress {
		c = compression.NewSnappyCompressor()
	}
	return &Snapshots{store: store, compressor: c, prefix: prefix, ttl: ttl}
}

// Load decodes the snapshot under key into v. It reports false on a miss.
func (s *Snapshots) Load(ctx context.Context, key string, v interface{}) (bool, error) {
	frame, err := s.store.Get(ctx, s.prefix+key)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	payload, err := compression.Unpack(frame)
	if err != nil {
		return false, fmt.Errorf("corrupt snapshot %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("corrupt snapshot %s: %w", key, err)
	}
	return true, nil
}

// Save encodes v and stores it under key for the configured TTL
func (s *Snapshots) Save(ctx context.Context, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	frame, err := compression.Pack(s.compressor, payload)
	if err != nil {
		return fmt.Errorf("compress snapshot %s: %w", key, err)
	}
	return s.store.Set(ctx, s.prefix+key, frame, s.ttl)
}

// Invalidate drops the snapshot under key
func (s *Snapshots) Invalidate(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.prefix+key)
}
