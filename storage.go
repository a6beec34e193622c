package bookshop

import "context"

// Persisted snapshot keys. Absence of a key is equivalent to the
// caller fallback value.
const (
	CartKey      = "cart"
	BookmarksKey = "bookmarks"
	AuthUserKey  = "auth_user"
)

// SnapshotStorage mirrors store snapshots into a durable key/value
// store. It is never authoritative: on conflicting read the in-memory
// state wins and is rewritten back. Both operations degrade silently,
// a failed write is a no-op and a failed read leaves the caller with
// its fallback value.
type SnapshotStorage interface {
	// Persist durably stores the serialized value under key.
	// A nil value removes the key instead.
	Persist(ctx context.Context, key string, value any)

	// Restore decodes the previously stored value into out and reports
	// whether out was populated. A corrupt payload is deleted on the way.
	Restore(ctx context.Context, key string, out any) bool
}
