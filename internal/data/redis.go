package data

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"ev-charge-planner/internal/logger"
	"ev-charge-planner/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// NewRedisClient returns a configured go-redis client and validates the connection with PING.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// RedisCache shares fetched price series between planner instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisCache {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (c *RedisCache) key(k string) string {
	return "prices:awattar:" + k
}

// Get treats any redis failure as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]model.PriceSlot, bool) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("redis cache get: %v", err)
		}
		return nil, false
	}
	var slots []model.PriceSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warnf("redis cache decode: %v", err)
		return nil, false
	}
	return slots, true
}

func (c *RedisCache) Set(ctx context.Context, key string, slots []model.PriceSlot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
