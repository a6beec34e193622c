package bookshop

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/boltdb/bolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltStorage returns a new bolt snapshot storage in a temporary path.
func newTestBoltStorage(t *testing.T) *boltSnapshotStorage {
	t.Helper()
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	require.NoError(t, err, "failed in creating a temporary database file")
	f.Close()

	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   f.Name(),
			Timeout:    5 * time.Second,
			BucketName: "test.snapshots",
		},
	}

	client, err := GetBoltDBClient(testConfig)
	require.NoError(t, err, "failed in creating a test bolt storage")

	t.Cleanup(func() {
		client.Close()
		os.Remove(f.Name())
	})

	return &boltSnapshotStorage{
		logger: zap.NewNop(),
		client: client,
		config: &testConfig.BoltDB,
	}
}

// Ensure bolt storage can mirror and restore a snapshot.
func TestBoltStorage_PersistRestore(t *testing.T) {
	bs := newTestBoltStorage(t)

	items := []CartItem{{ISBN13: "9781912047451", Title: "Bolt test book title", Price: "$28.99", Qty: 2}}
	bs.Persist(context.TODO(), CartKey, items)

	var restored []CartItem
	ok := bs.Restore(context.TODO(), CartKey, &restored)
	assert.True(t, ok)
	assert.Equal(t, items, restored)
}

// Ensure restoring an absent key leaves the caller with its fallback.
func TestBoltStorage_RestoreMissing(t *testing.T) {
	bs := newTestBoltStorage(t)

	restored := []string{"fallback"}
	ok := bs.Restore(context.TODO(), BookmarksKey, &restored)
	assert.False(t, ok)
	assert.Equal(t, []string{"fallback"}, restored)
}

// Ensure a nil value removes the previously mirrored key.
func TestBoltStorage_PersistNilRemoves(t *testing.T) {
	bs := newTestBoltStorage(t)

	bs.Persist(context.TODO(), AuthUserKey, &User{ID: "u:0", Email: "jerome@bookshop.dev"})
	var user User
	require.True(t, bs.Restore(context.TODO(), AuthUserKey, &user))

	bs.Persist(context.TODO(), AuthUserKey, nil)
	ok := bs.Restore(context.TODO(), AuthUserKey, &user)
	assert.False(t, ok)
}

// Ensure a corrupt payload falls back and gets removed on the way.
func TestBoltStorage_RestoreCorrupt(t *testing.T) {
	bs := newTestBoltStorage(t)

	// plant a payload no snapshot shape can decode.
	err := bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put([]byte(CartKey), []byte("{not-json"))
	})
	require.NoError(t, err)

	var restored []CartItem
	ok := bs.Restore(context.TODO(), CartKey, &restored)
	assert.False(t, ok)

	// the corrupt key must be gone.
	err = bs.client.View(func(tx *bolt.Tx) error {
		assert.Nil(t, tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(CartKey)))
		return nil
	})
	require.NoError(t, err)
}
