package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSConfig represents NATS connection configuration
type NATSConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration // Connect timeout (default: 5s)
}

// NATSQueue implements Publisher using NATS JetStream
type NATSQueue struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	owned   bool // connection is closed with the queue
	streams map[string]bool
	mu      sync.Mutex
}

// newNATSQueue creates a new NATS queue instance with JetStream enabled
func newNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := []nats.Option{
		nats.Name("petdex-analytics"),
		nats.Timeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSQueueWithConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	q.owned = true
	return q, nil
}

// newNATSQueueWithConn creates a new NATS queue instance with existing connection (used in tests)
func newNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSQueue{
		conn:    conn,
		js:      js,
		streams: make(map[string]bool),
	}, nil
}

// Publish publishes a message to a subject using JetStream and waits for the ack
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.ensureStream(subject); err != nil {
		return err
	}

	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// ensureStream creates the stream capturing subject on first use
func (q *NATSQueue) ensureStream(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.streams[subject] {
		return nil
	}

	name := streamName(subject)
	_, err := q.js.StreamInfo(name)
	if errors.Is(err, nats.ErrStreamNotFound) {
		_, err = q.js.AddStream(&nats.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
			Storage:  nats.FileStorage,
			MaxAge:   7 * 24 * time.Hour,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to ensure stream for subject %s: %w", subject, err)
	}

	q.streams[subject] = true
	return nil
}

// Close drains the connection if the queue opened it
func (q *NATSQueue) Close() error {
	if q.conn == nil || !q.owned {
		return nil
	}
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
		return err
	}
	return nil
}

// streamName maps a subject to a valid JetStream stream name
func streamName(subject string) string {
	replacer := strings.NewReplacer(".", "-", "*", "all", ">", "rest", " ", "-")
	return "petdex-" + replacer.Replace(subject)
}
