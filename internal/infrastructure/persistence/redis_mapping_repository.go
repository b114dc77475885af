package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// Ensure RedisMappingRepository implements mapping.Repository
var _ mapping.Repository = (*RedisMappingRepository)(nil)

const defaultRedisMappingKey = "catalog-mapper:mapping"

// RedisKV is the subset of the redis client used by RedisMappingRepository
type RedisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisMappingRepository stores the mapping document under a single Redis key.
// SET replaces the value atomically. Suitable when several instances share
// one mapping.
type RedisMappingRepository struct {
	client RedisKV
	closer func() error
	key    string
}

// NewRedisMappingRepository connects to Redis and verifies the connection
func NewRedisMappingRepository(cfg config.RedisConfig, key string) (*RedisMappingRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r := NewRedisMappingRepositoryWithClient(client, key)
	r.closer = client.Close
	return r, nil
}

// NewRedisMappingRepositoryWithClient creates a repository over an existing client.
// The caller keeps ownership of the client.
func NewRedisMappingRepositoryWithClient(client RedisKV, key string) *RedisMappingRepository {
	if key == "" {
		key = defaultRedisMappingKey
	}
	return &RedisMappingRepository{
		client: client,
		key:    key,
	}
}

// Get reads and decodes the mapping value. A missing key is not an error.
func (r *RedisMappingRepository) Get(ctx context.Context) (*mapping.Config, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get mapping from redis: %w", err)
	}

	cfg, err := mapping.Decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("redis key %s: %w", r.key, err)
	}
	return cfg, true, nil
}

// Put stores the encoded mapping without expiry
func (r *RedisMappingRepository) Put(ctx context.Context, cfg *mapping.Config) error {
	data, err := mapping.Encode(cfg)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store mapping in redis: %w", err)
	}
	return nil
}

// Close closes the Redis client when the repository created it
func (r *RedisMappingRepository) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
