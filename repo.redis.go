package bookshop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HSnapshots is the redis hash holding all mirrored snapshots.
const HSnapshots string = "snapshots"

var _ SnapshotStorage = (*redisSnapshotStorage)(nil) // ensure redisSnapshotStorage implements SnapshotStorage.

type redisSnapshotStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisSnapshotStorage provides an instance of redis-based snapshot storage.
func NewRedisSnapshotStorage(logger *zap.Logger, client *redis.Client) SnapshotStorage {
	return &redisSnapshotStorage{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Persist mirrors a snapshot into the redis hash. A nil value removes
// the field. Failures are logged and swallowed.
func (rs *redisSnapshotStorage) Persist(ctx context.Context, key string, value any) {
	if value == nil {
		if err := rs.client.HDel(ctx, HSnapshots, key).Err(); err != nil && err != redis.Nil {
			rs.logger.Error("storage: failed to remove snapshot", zap.String("key", key), zap.Error(err))
		}
		return
	}

	valueBytes, err := json.Marshal(value)
	if err != nil {
		rs.logger.Error("storage: failed to serialize snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	if err = rs.client.HSet(ctx, HSnapshots, key, valueBytes).Err(); err != nil {
		rs.logger.Error("storage: failed to persist snapshot", zap.String("key", key), zap.Error(err))
	}
}

// Restore reads a snapshot back from the redis hash into out. It
// reports false when the field is absent or the payload unreadable.
// A corrupt payload is removed so the next restore starts clean.
func (rs *redisSnapshotStorage) Restore(ctx context.Context, key string, out any) bool {
	raw, err := rs.client.HGet(ctx, HSnapshots, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		rs.logger.Error("storage: failed to read snapshot", zap.String("key", key), zap.Error(err))
		return false
	}

	if err = json.Unmarshal([]byte(raw), out); err != nil {
		rs.logger.Warn("storage: dropping corrupt snapshot", zap.String("key", key), zap.Error(err))
		rs.Persist(ctx, key, nil)
		return false
	}
	return true
}
