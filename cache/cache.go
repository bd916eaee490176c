package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash"
	"github.com/dgraph-io/ristretto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type loadFunc func(ctx context.Context) ([]byte, error)

// ResultCache holds serialized analysis responses. Lookups go to an
// in-process ristretto cache first and then to redis, if one is
// configured, so several service instances can share work.
type ResultCache struct {
	local  *ristretto.Cache
	remote *redis.Client
	ttl    time.Duration
}

const redisPrefix = "guobiao:result:"

// NewResultCache makes a cache bounded to maxCost bytes. redisURL may be
// empty to run without the shared tier.
func NewResultCache(maxCost int64, redisURL string, ttl time.Duration) (*ResultCache, error) {
	local, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: max(maxCost/64, 1000),
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	c := &ResultCache{local: local, ttl: ttl}
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		c.remote = redis.NewClient(opts)
	}
	return c, nil
}

// Key hashes the parts of a request into a cache key.
func Key(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		d.Write([]byte(p))
		d.Write([]byte{0})
	}
	return d.Sum64()
}

func (c *ResultCache) Get(ctx context.Context, key uint64) ([]byte, bool) {
	if v, ok := c.local.Get(key); ok {
		return v.([]byte), true
	}
	if c.remote == nil {
		return nil, false
	}
	bts, err := c.remote.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Err(err).Msg("redis-get")
		}
		return nil, false
	}
	c.local.SetWithTTL(key, bts, int64(len(bts)), c.ttl)
	return bts, true
}

func (c *ResultCache) Set(ctx context.Context, key uint64, val []byte) {
	c.local.SetWithTTL(key, val, int64(len(val)), c.ttl)
	if c.remote == nil {
		return
	}
	if err := c.remote.Set(ctx, redisKey(key), val, c.ttl).Err(); err != nil {
		log.Err(err).Msg("redis-set")
	}
}

// Load returns the cached value for key, calling loadFunc and storing its
// result on a miss.
func (c *ResultCache) Load(ctx context.Context, key uint64, loadFunc loadFunc) ([]byte, error) {
	if v, ok := c.Get(ctx, key); ok {
		log.Debug().Uint64("key", key).Msg("getting result from cache")
		return v, nil
	}
	v, err := loadFunc(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(ctx, key, v)
	return v, nil
}

// Wait blocks until pending local writes are visible.
func (c *ResultCache) Wait() {
	c.local.Wait()
}

func (c *ResultCache) Close() error {
	c.local.Close()
	if c.remote != nil {
		return c.remote.Close()
	}
	return nil
}

func redisKey(key uint64) string {
	return fmt.Sprintf("%s%016x", redisPrefix, key)
}
