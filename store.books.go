package bookshop

import (
	"sync"

	"go.uber.org/zap"
)

// BookCatalog is the in-memory cache of full book records keyed by
// isbn13. It is populated opportunistically as detail responses
// arrive and shared read-only by many consumers. The cache is
// unbounded and lives for the process lifetime, there is no eviction.
type BookCatalog struct {
	logger *zap.Logger
	mu     sync.RWMutex
	byID   map[string]BookDetails
}

// NewBookCatalog provides an empty catalog.
func NewBookCatalog(logger *zap.Logger) *BookCatalog {
	return &BookCatalog{
		logger: logger,
		byID:   make(map[string]BookDetails),
	}
}

// Upsert inserts or overwrites the record under its isbn13.
func (bc *BookCatalog) Upsert(details BookDetails) {
	if len(details.ISBN13) == 0 {
		bc.logger.Warn("catalog: ignoring record without isbn13", zap.String("book.title", details.Title))
		return
	}
	bc.mu.Lock()
	bc.byID[details.ISBN13] = details
	bc.mu.Unlock()
}

// Get returns the cached record for isbn13 if present.
func (bc *BookCatalog) Get(isbn13 string) (BookDetails, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	details, ok := bc.byID[isbn13]
	return details, ok
}

// Len returns the number of cached records.
func (bc *BookCatalog) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.byID)
}
