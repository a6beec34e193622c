package bookshop

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

var _ SnapshotStorage = (*MemorySnapshotStorage)(nil) // ensure MemorySnapshotStorage implements SnapshotStorage.

// MemorySnapshotStorage keeps snapshots in process memory only. It
// backs deployments where no durable store is reachable, state then
// simply does not survive a restart, and doubles as a fixture for
// unit tests.
type MemorySnapshotStorage struct {
	logger *zap.Logger
	mu     sync.Mutex
	data   map[string][]byte
}

// NewMemorySnapshotStorage provides an empty in-memory snapshot storage.
func NewMemorySnapshotStorage(logger *zap.Logger) *MemorySnapshotStorage {
	return &MemorySnapshotStorage{
		logger: logger,
		data:   make(map[string][]byte),
	}
}

// Persist mirrors a snapshot in memory. A nil value removes the key.
func (ms *MemorySnapshotStorage) Persist(_ context.Context, key string, value any) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if value == nil {
		delete(ms.data, key)
		return
	}

	valueBytes, err := json.Marshal(value)
	if err != nil {
		ms.logger.Error("storage: failed to serialize snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	ms.data[key] = valueBytes
}

// Restore reads a snapshot back into out. It reports false when the
// key is absent or the payload unreadable, removing a corrupt one.
func (ms *MemorySnapshotStorage) Restore(_ context.Context, key string, out any) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	raw, ok := ms.data[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		ms.logger.Warn("storage: dropping corrupt snapshot", zap.String("key", key), zap.Error(err))
		delete(ms.data, key)
		return false
	}
	return true
}

// Raw returns the serialized snapshot stored under key, mainly useful
// to assert on mirrored state.
func (ms *MemorySnapshotStorage) Raw(key string) ([]byte, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	raw, ok := ms.data[key]
	return raw, ok
}

// SeedRaw installs a serialized payload under key as-is, bypassing
// any validation. It simulates legacy or corrupt persisted data.
func (ms *MemorySnapshotStorage) SeedRaw(key string, raw []byte) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.data[key] = raw
}
