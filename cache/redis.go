package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hytale-tools/modlate"
)

// RedisCache is a Redis-backed translation cache for sharing translations
// between machines or users.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string // connection URL, e.g. "redis://localhost:6379"
	TTL       int    // TTL in seconds (0 = no expiration)
	KeyPrefix string // prefix for all keys (default "modlate:")
}

// redisRecord is the stored JSON shape of a record.
type redisRecord struct {
	Text      string    `json:"text"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRedisCache connects to Redis with the given configuration.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &modlate.CacheError{Message: "parse redis URL", Cause: err}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, &modlate.CacheError{Message: "connect to redis", Cause: err}
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient wraps an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "modlate:"
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}
	return &RedisCache{client: client, ttl: ttl, keyPrefix: keyPrefix}
}

// Lookup retrieves a record by key.
func (c *RedisCache) Lookup(ctx context.Context, key modlate.Key) (modlate.Record, bool, error) {
	val, err := c.client.Get(ctx, c.keyPrefix+key.String()).Result()
	if err == redis.Nil {
		return modlate.Record{}, false, nil
	}
	if err != nil {
		return modlate.Record{}, false, &modlate.CacheError{Message: "redis get", Cause: err}
	}

	var rr redisRecord
	if err := json.Unmarshal([]byte(val), &rr); err != nil {
		// A corrupt value is a miss, not a failure of the whole cache.
		return modlate.Record{}, false, nil
	}
	return modlate.Record{
		Key:       key,
		Text:      rr.Text,
		Provider:  rr.Provider,
		CreatedAt: rr.CreatedAt,
	}, true, nil
}

// Store saves a record.
func (c *RedisCache) Store(ctx context.Context, rec modlate.Record) error {
	data, err := json.Marshal(redisRecord{
		Text:      rec.Text,
		Provider:  rec.Provider,
		CreatedAt: rec.CreatedAt,
	})
	if err != nil {
		return &modlate.CacheError{Message: "encode record", Cause: err}
	}
	if err := c.client.Set(ctx, c.keyPrefix+rec.Key.String(), data, c.ttl).Err(); err != nil {
		return &modlate.CacheError{Message: "redis set", Cause: err}
	}
	return nil
}

// Flush is a no-op; Redis writes are immediately visible.
func (c *RedisCache) Flush(context.Context) error { return nil }

// Ping tests the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ modlate.Cache = (*RedisCache)(nil)
