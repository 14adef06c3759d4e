package identity

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "identity:"

// RedisStore persists one identity per client with no expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) For(clientID string) Cache {
	return &redisCache{client: s.client, key: keyPrefix + clientID}
}

type redisCache struct {
	client *redis.Client
	key    string
}

func (c *redisCache) Read(ctx context.Context) (*Identity, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read identity: %w", err)
	}

	id := decode(data)
	if id == nil {
		log.Printf("[Identity] Dropping malformed cache entry %s", c.key)
		if err := c.client.Del(ctx, c.key).Err(); err != nil {
			log.Printf("[Identity] Failed to drop %s: %v", c.key, err)
		}
		return nil, nil
	}
	return id, nil
}

func (c *redisCache) Write(ctx context.Context, identity *Identity) error {
	data, err := encode(identity)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, 0).Err()
}

func (c *redisCache) Delete(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
