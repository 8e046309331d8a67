package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/goraffle/internal/usecase"
)

// generationTTL bounds how long a generation counter outlives its last
// invalidation. It only has to exceed the slowest read between Generation
// and Fill.
const generationTTL = 24 * time.Hour

// KEYS[1] value, KEYS[2] generation. ARGV: generation seen, value, ttl ms.
var fillScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or "0"
if current ~= ARGV[1] then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
  redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

// KEYS[1] value, KEYS[2] generation. ARGV: generation ttl ms.
var invalidateScript = redis.NewScript(`
redis.call("INCR", KEYS[2])
redis.call("PEXPIRE", KEYS[2], ARGV[1])
return redis.call("DEL", KEYS[1])
`)

// Cache implements usecase.Cache on Redis. A value and its generation
// counter share a hash tag so both scripts stay on one slot.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache creates a new Cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		prefix: "goraffle:cache:",
	}
}

func (c *Cache) keys(key string) []string {
	base := c.prefix + "{" + key + "}"
	return []string{base, base + ":gen"}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.keys(key)[0]).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	return val, err
}

// Generation returns the invalidation counter of key, zero if it was never
// invalidated.
func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := c.client.Get(ctx, c.keys(key)[1]).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Fill stores value unless key was invalidated since generation was read.
func (c *Cache) Fill(ctx context.Context, key string, generation int64, value []byte, ttl time.Duration) (bool, error) {
	stored, err := fillScript.Run(ctx, c.client, c.keys(key), generation, value, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// Delete drops the value and advances the generation.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return invalidateScript.Run(ctx, c.client, c.keys(key), generationTTL.Milliseconds()).Err()
}
