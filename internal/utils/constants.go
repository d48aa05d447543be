package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout bounds a whole analytics request, upstream fetches included
	DefaultRequestTimeout = 60 * time.Second

	// ShutdownTimeout is the grace period for in-flight requests on shutdown
	ShutdownTimeout = 10 * time.Second

	// AlertPublishTimeout bounds a single alert publish
	AlertPublishTimeout = 5 * time.Second
)

// Upstream Timeouts
const (
	// UpstreamRequestTimeout is the default per-attempt timeout for a page request
	UpstreamRequestTimeout = 10 * time.Second

	// UpstreamPageSize is the page size the PetDex API serves by default
	UpstreamPageSize = 50

	// UpstreamConcurrency is the default number of pages fetched in parallel
	UpstreamConcurrency = 4
)

// =============================================================================
// Retry and Backoff Constants
// =============================================================================

const (
	// DefaultMaxRetries is the default number of retry attempts
	DefaultMaxRetries = 3

	// DefaultRetryBackoff is the default backoff duration between retries
	DefaultRetryBackoff = 200 * time.Millisecond

	// MaxRetryBackoff is the maximum backoff duration
	MaxRetryBackoff = 5 * time.Second
)

// =============================================================================
// Cache Constants
// =============================================================================

const (
	// DefaultSnapshotTTL is how long a fetched collection stays cached
	DefaultSnapshotTTL = 30 * time.Second
)

// CacheType represents the snapshot cache backend
type CacheType string

const (
	// CacheTypeNone disables caching (default)
	CacheTypeNone CacheType = "none"

	// CacheTypeMemory keeps snapshots in process memory
	CacheTypeMemory CacheType = "memory"

	// CacheTypeRedis keeps snapshots in Redis
	CacheTypeRedis CacheType = "redis"
)

// =============================================================================
// Queue Type Constants
// =============================================================================
// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
