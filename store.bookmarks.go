package bookshop

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// BookmarkStore holds the set of bookmarked isbn13 identifiers. The
// set is deduplicated on restore as well, persisted snapshots may
// predate the deduplication logic and still carry duplicates. Every
// mutation mirrors the deduplicated snapshot to the persistence layer.
type BookmarkStore struct {
	logger  *zap.Logger
	storage SnapshotStorage
	mu      sync.Mutex
	ids     map[string]struct{}
}

// NewBookmarkStore provides a bookmark set initialized from its
// persisted snapshot, dropping any legacy duplicate on the way.
func NewBookmarkStore(ctx context.Context, logger *zap.Logger, storage SnapshotStorage) *BookmarkStore {
	bs := &BookmarkStore{
		logger:  logger,
		storage: storage,
		ids:     make(map[string]struct{}),
	}

	var persisted []string
	if bs.storage.Restore(ctx, BookmarksKey, &persisted) {
		for _, id := range persisted {
			bs.ids[id] = struct{}{}
		}
		if len(persisted) != len(bs.ids) {
			bs.logger.Warn("bookmarks: dropped duplicates from persisted snapshot",
				zap.Int("bookmarks.persisted", len(persisted)),
				zap.Int("bookmarks.unique", len(bs.ids)),
			)
		}
	}
	return bs
}

// Toggle flips the membership of isbn13 and reports whether the
// identifier is bookmarked afterwards.
func (bs *BookmarkStore) Toggle(ctx context.Context, isbn13 string) bool {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	_, present := bs.ids[isbn13]
	if present {
		delete(bs.ids, isbn13)
	} else {
		bs.ids[isbn13] = struct{}{}
	}
	bs.persistLocked(ctx)
	return !present
}

// PruneTo removes every member not present in the given valid set.
// It is used to reconcile bookmarks whose backing book record failed
// to load.
func (bs *BookmarkStore) PruneTo(ctx context.Context, validIDs []string) {
	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()
	for id := range bs.ids {
		if _, ok := valid[id]; !ok {
			bs.logger.Info("bookmarks: pruning unresolvable identifier", zap.String("book.isbn13", id))
			delete(bs.ids, id)
		}
	}
	bs.persistLocked(ctx)
}

// Has reports whether isbn13 is currently bookmarked.
func (bs *BookmarkStore) Has(isbn13 string) bool {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	_, ok := bs.ids[isbn13]
	return ok
}

// IDs returns the sorted list of bookmarked identifiers.
func (bs *BookmarkStore) IDs() []string {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.sortedLocked()
}

// Len returns the number of bookmarked identifiers.
func (bs *BookmarkStore) Len() int {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return len(bs.ids)
}

// persistLocked mirrors the sorted snapshot. Callers must hold the lock.
func (bs *BookmarkStore) persistLocked(ctx context.Context) {
	bs.storage.Persist(ctx, BookmarksKey, bs.sortedLocked())
}

func (bs *BookmarkStore) sortedLocked() []string {
	ids := make([]string, 0, len(bs.ids))
	for id := range bs.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
