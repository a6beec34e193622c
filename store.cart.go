package bookshop

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// CartStore holds the ordered list of cart line items, at most one
// line per isbn13. Every mutation mirrors the full snapshot to the
// persistence layer so the cart survives a process restart.
type CartStore struct {
	logger  *zap.Logger
	storage SnapshotStorage
	mu      sync.Mutex
	items   []CartItem
}

// NewCartStore provides a cart initialized from its persisted snapshot.
func NewCartStore(ctx context.Context, logger *zap.Logger, storage SnapshotStorage) *CartStore {
	cs := &CartStore{
		logger:  logger,
		storage: storage,
		items:   []CartItem{},
	}
	if cs.storage.Restore(ctx, CartKey, &cs.items) {
		cs.logger.Info("cart: restored persisted snapshot", zap.Int("cart.lines", len(cs.items)))
	}
	return cs
}

// Add merges the item into the cart. Adding an isbn13 already present
// increments its quantity instead of duplicating the line.
func (cs *CartStore) Add(ctx context.Context, item CartItem) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for i := range cs.items {
		if cs.items[i].ISBN13 == item.ISBN13 {
			cs.items[i].Qty += item.Qty
			cs.persistLocked(ctx)
			return
		}
	}
	cs.items = append(cs.items, item)
	cs.persistLocked(ctx)
}

// Remove drops the line holding the given isbn13.
func (cs *CartStore) Remove(ctx context.Context, isbn13 string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	kept := cs.items[:0]
	for _, item := range cs.items {
		if item.ISBN13 != isbn13 {
			kept = append(kept, item)
		}
	}
	cs.items = kept
	cs.persistLocked(ctx)
}

// SetQuantity replaces the quantity of an existing line, clamped to a
// minimum of 1. An absent isbn13 leaves the cart untouched.
func (cs *CartStore) SetQuantity(ctx context.Context, isbn13 string, qty int) {
	if qty < 1 {
		qty = 1
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	for i := range cs.items {
		if cs.items[i].ISBN13 == isbn13 {
			cs.items[i].Qty = qty
			cs.persistLocked(ctx)
			return
		}
	}
}

// Clear empties the cart.
func (cs *CartStore) Clear(ctx context.Context) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.items = []CartItem{}
	cs.persistLocked(ctx)
}

// Items returns a copy of the current line items in order.
func (cs *CartStore) Items() []CartItem {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	items := make([]CartItem, len(cs.items))
	copy(items, cs.items)
	return items
}

// Total returns the number of copies across all lines.
func (cs *CartStore) Total() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	total := 0
	for _, item := range cs.items {
		total += item.Qty
	}
	return total
}

// persistLocked mirrors the full snapshot. Callers must hold the lock.
func (cs *CartStore) persistLocked(ctx context.Context) {
	cs.storage.Persist(ctx, CartKey, cs.items)
}
