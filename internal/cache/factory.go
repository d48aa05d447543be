package cache

import (
	"fmt"

	"github.com/petdex/analytics/internal/config"
	"github.com/petdex/analytics/internal/utils"
)

// NewStore creates the store selected by configuration
func NewStore(cfg config.CacheConfig) (Store, error) {
	switch utils.CacheType(cfg.Type) {
	case utils.CacheTypeNone, "":
		return NoopStore{}, nil
	case utils.CacheTypeMemory:
		return NewMemoryStore(cfg.TTL), nil
	case utils.CacheTypeRedis:
		return newRedisStore(cfg.RedisURL, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
