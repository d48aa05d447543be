package queue

import "context"

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish publishes a message to a subject/topic and waits for the broker to accept it
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection
	Close() error
}
