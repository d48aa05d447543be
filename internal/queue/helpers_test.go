package queue

import "github.com/nats-io/nats.go"

// Test-only helpers to reach the unexported constructors.

func NewNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	return newNATSQueue(cfg)
}

func NewNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	return newNATSQueueWithConn(conn)
}

func NewRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	return newRedisQueue(cfg)
}

func NewKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	return newKafkaQueue(cfg)
}

func NewMemoryQueue() *MemoryQueue {
	return newMemoryQueue()
}
