package bookshop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ SnapshotStorage = (*boltSnapshotStorage)(nil) // ensure boltSnapshotStorage implements SnapshotStorage.

type boltSnapshotStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltSnapshotStorage provides an instance of bolt-based snapshot storage.
func NewBoltSnapshotStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) SnapshotStorage {
	return &boltSnapshotStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based snapshot storage.
func (bs *boltSnapshotStorage) Close() error {
	return bs.client.Close()
}

// Persist mirrors a snapshot into the boltdb store. A nil value
// removes the key. Failures are logged and swallowed, the in-memory
// state stays the source of truth.
func (bs *boltSnapshotStorage) Persist(_ context.Context, key string, value any) {
	if value == nil {
		if err := bs.client.Update(func(tx *bolt.Tx) error {
			return tx.Bucket([]byte(bs.config.BucketName)).Delete([]byte(key))
		}); err != nil {
			bs.logger.Error("storage: failed to remove snapshot", zap.String("key", key), zap.Error(err))
		}
		return
	}

	valueBytes, err := json.Marshal(value)
	if err != nil {
		bs.logger.Error("storage: failed to serialize snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	err = bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put([]byte(key), valueBytes)
	})
	if err != nil {
		bs.logger.Error("storage: failed to persist snapshot", zap.String("key", key), zap.Error(err))
	}
}

// Restore reads a snapshot back from the boltdb store into out. It
// reports false when the key is absent or the payload unreadable. A
// corrupt payload is removed so the next restore starts clean.
func (bs *boltSnapshotStorage) Restore(ctx context.Context, key string, out any) bool {
	var raw []byte
	err := bs.client.View(func(tx *bolt.Tx) error {
		if result := tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(key)); result != nil {
			raw = append(raw, result...)
		}
		return nil
	})
	if err != nil {
		bs.logger.Error("storage: failed to read snapshot", zap.String("key", key), zap.Error(err))
		return false
	}
	if raw == nil {
		return false
	}

	if err = json.Unmarshal(raw, out); err != nil {
		bs.logger.Warn("storage: dropping corrupt snapshot", zap.String("key", key), zap.Error(err))
		bs.Persist(ctx, key, nil)
		return false
	}
	return true
}
