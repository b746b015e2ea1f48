package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yuzvak/storefront-client/internal/config"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
)

type Connection struct {
	client *redis.Client
}

func NewConnection(cfg config.RedisConfig) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 20,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Connection{
		client: client,
	}, nil
}

func (c *Connection) Close() error {
	return c.client.Close()
}

func (c *Connection) GetClient() *redis.Client {
	return c.client
}

// RedisStore is the KeyValueStore for shared gateway deployments, where
// session state must survive the process. Keys are namespaced per session so
// concurrent users never collide.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

func NewRedisStore(conn *Connection, namespace string) *RedisStore {
	return &RedisStore{
		client:    conn.GetClient(),
		namespace: namespace,
	}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("session:%s:%s", s.namespace, key)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	result, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", domainErrors.ErrKeyNotFound
		}
		return "", err
	}
	return result, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, s.key(key))
	}
	_, err := pipe.Exec(ctx)
	return err
}
