package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when publishing to a closed queue
var ErrClosed = errors.New("queue closed")

// MemoryQueue keeps published messages in memory.
// This is useful for testing and development without external dependencies
type MemoryQueue struct {
	messages map[string][][]byte
	closed   bool
	mu       sync.RWMutex
}

// newMemoryQueue creates a new in-memory queue instance
func newMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		messages: make(map[string][][]byte),
	}
}

// Publish appends a copy of data to the subject's log
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Make a copy of data to avoid races with the caller's buffer
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.messages[subject] = append(q.messages[subject], dataCopy)
	return nil
}

// Messages returns the messages published to subject, oldest first
func (q *MemoryQueue) Messages(subject string) [][]byte {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([][]byte, len(q.messages[subject]))
	copy(out, q.messages[subject])
	return out
}

// Count returns the number of messages published to subject
func (q *MemoryQueue) Count(subject string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.messages[subject])
}

// Close stops accepting messages. Published messages stay readable.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}
