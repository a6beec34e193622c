package bookshop

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBookmarkStore() (*BookmarkStore, *MemorySnapshotStorage) {
	storage := NewMemorySnapshotStorage(zap.NewNop())
	return NewBookmarkStore(context.TODO(), zap.NewNop(), storage), storage
}

// Ensure toggling twice returns the set to its original state.
func TestBookmarkStore_TogglePair(t *testing.T) {
	bs, _ := newTestBookmarkStore()

	assert.True(t, bs.Toggle(context.TODO(), "A"))
	assert.Equal(t, []string{"A"}, bs.IDs())

	assert.False(t, bs.Toggle(context.TODO(), "A"))
	assert.Empty(t, bs.IDs())
}

// Ensure a legacy persisted snapshot with duplicates is deduplicated
// on restore and any later mutation mirrors a clean set.
func TestBookmarkStore_DeduplicatesLegacySnapshot(t *testing.T) {
	storage := NewMemorySnapshotStorage(zap.NewNop())
	storage.SeedRaw(BookmarksKey, []byte(`["A","A","B","A"]`))

	bs := NewBookmarkStore(context.TODO(), zap.NewNop(), storage)
	assert.Equal(t, 2, bs.Len())

	bs.Toggle(context.TODO(), "C")

	raw, ok := storage.Raw(BookmarksKey)
	require.True(t, ok)
	var persisted []string
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.ElementsMatch(t, []string{"A", "B", "C"}, persisted)
}

// Ensure pruning drops every member outside the valid set.
func TestBookmarkStore_PruneTo(t *testing.T) {
	bs, storage := newTestBookmarkStore()
	bs.Toggle(context.TODO(), "A")
	bs.Toggle(context.TODO(), "B")
	bs.Toggle(context.TODO(), "C")

	bs.PruneTo(context.TODO(), []string{"A", "C", "Z"})

	assert.Equal(t, []string{"A", "C"}, bs.IDs())
	assert.False(t, bs.Has("B"))

	var persisted []string
	require.True(t, storage.Restore(context.TODO(), BookmarksKey, &persisted))
	assert.Equal(t, []string{"A", "C"}, persisted)
}

// Ensure the set survives a restart through its mirrored snapshot.
func TestBookmarkStore_PersistAcrossRestart(t *testing.T) {
	bs, storage := newTestBookmarkStore()
	bs.Toggle(context.TODO(), "A")
	bs.Toggle(context.TODO(), "B")

	restarted := NewBookmarkStore(context.TODO(), zap.NewNop(), storage)
	assert.Equal(t, []string{"A", "B"}, restarted.IDs())
}
