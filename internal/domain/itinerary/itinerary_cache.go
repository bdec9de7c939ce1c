package itinerary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

// ResultCache stores generated itineraries by request key.
type ResultCache interface {
	Get(ctx context.Context, key string) (*types.Itinerary, bool, error)
	Set(ctx context.Context, key string, it *types.Itinerary) error
}

// CacheKey identifies a planning run: the preferences, the calendar date the trip
// starts on and the catalog version. Undated requests expire with the day and every
// catalog change starts a fresh key space.
func CacheKey(prefs types.TravelPreferences, start time.Time, catalogVersion string) (string, error) {
	payload, err := json.Marshal(struct {
		Prefs   types.TravelPreferences `json:"prefs"`
		Start   string                  `json:"start"`
		Catalog string                  `json:"catalog"`
	}{prefs, start.Format(types.DateLayout), catalogVersion})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return "itinerary:" + hex.EncodeToString(sum[:]), nil
}

var _ ResultCache = (*MemoryResultCache)(nil)

// MemoryResultCache keeps itineraries in process memory.
type MemoryResultCache struct {
	cache *cache.Cache
}

func NewMemoryResultCache(ttl time.Duration) *MemoryResultCache {
	return &MemoryResultCache{cache: cache.New(ttl, 2*ttl)}
}

func (c *MemoryResultCache) Get(_ context.Context, key string) (*types.Itinerary, bool, error) {
	v, found := c.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	it := v.(types.Itinerary)
	return &it, true, nil
}

func (c *MemoryResultCache) Set(_ context.Context, key string, it *types.Itinerary) error {
	c.cache.SetDefault(key, *it)
	return nil
}

var _ ResultCache = (*RedisResultCache)(nil)

// RedisResultCache shares itineraries between instances as JSON values.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{client: client, ttl: ttl}
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (*types.Itinerary, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached itinerary: %w", err)
	}

	var it types.Itinerary
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached itinerary: %w", err)
	}
	return &it, true, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, it *types.Itinerary) error {
	raw, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache itinerary: %w", err)
	}
	return nil
}
