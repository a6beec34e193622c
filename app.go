package bookshop

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AppStore is the process-wide application state container. It owns
// the remote data client, the snapshot storage and the four state
// stores, and is passed explicitly to consumers, there is no ambient
// singleton. Flow mutations are serialized so each one applies fully
// before the next begins.
type AppStore struct {
	logger  *zap.Logger
	config  *Config
	client  BookshopClientProvider
	storage SnapshotStorage

	Catalog   *BookCatalog
	Cart      *CartStore
	Bookmarks *BookmarkStore
	Session   *SessionStore

	mu       sync.Mutex
	cleanups []func()
}

// NewAppStore wires the logging, storage and client modules from the
// given configuration and restores every persisted state slice.
func NewAppStore(config *Config) (*AppStore, error) {
	// Ensure the logs folder exists and Setup the logging module.
	if err := os.MkdirAll(config.LogFolder, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	writer := NewRSyncWriter(config, NewClock(config.IsProduction))
	logger, flusher := SetupLogging(config, writer)
	cleanups := []func(){
		func() { _ = flusher() },
		func() { _ = writer.Close() },
	}

	// Setup the snapshot storage backend.
	var storage SnapshotStorage
	switch config.Storage.Driver {
	case RedisDriver:
		redisClient, err := GetRedisClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis server: %s", err)
		}
		storage = NewRedisSnapshotStorage(logger, redisClient)
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
	default:
		boltClient, err := GetBoltDBClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltDB database: %s", err)
		}
		storage = NewBoltSnapshotStorage(logger, &config.BoltDB, boltClient)
		cleanups = append(cleanups, func() { _ = boltClient.Close() })
	}

	client := NewBookshopClient(logger, config, NewSleepDelayer(config.Auth.MockLatency), NewIDsHandler())
	app := newAppStore(context.Background(), logger, config, client, storage)
	app.cleanups = cleanups
	return app, nil
}

// newAppStore assembles the container around already built modules
// and restores the persisted cart, bookmarks and session slices.
func newAppStore(ctx context.Context, logger *zap.Logger, config *Config, client BookshopClientProvider, storage SnapshotStorage) *AppStore {
	return &AppStore{
		logger:    logger,
		config:    config,
		client:    client,
		storage:   storage,
		Catalog:   NewBookCatalog(logger),
		Cart:      NewCartStore(ctx, logger, storage),
		Bookmarks: NewBookmarkStore(ctx, logger, storage),
		Session:   NewSessionStore(ctx, logger, storage),
	}
}

// Clean calls all registered cleanups functions.
func (app *AppStore) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// NewReleases lists the newly released books.
func (app *AppStore) NewReleases(ctx context.Context) ([]BookBase, error) {
	return app.client.GetNewReleases(ctx)
}

// Search returns one page of books matching the query.
func (app *AppStore) Search(ctx context.Context, query string, page int) (SearchResult, error) {
	return app.client.SearchBooks(ctx, query, page)
}

// LoadBookDetails serves the full record from the catalog or fetches
// it and caches it on the way out.
func (app *AppStore) LoadBookDetails(ctx context.Context, isbn13 string) (BookDetails, error) {
	if details, ok := app.Catalog.Get(isbn13); ok {
		return details, nil
	}

	details, err := app.client.GetBookDetails(ctx, isbn13)
	if err != nil {
		return BookDetails{}, err
	}
	app.Catalog.Upsert(details)
	return details, nil
}

// BookmarkBook toggles the bookmark of a book. The catalog upsert
// happens strictly before the toggle so a subsequent read of the
// bookmark list never misses its backing record. It reports whether
// the book is bookmarked afterwards.
func (app *AppStore) BookmarkBook(ctx context.Context, isbn13 string) (bool, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if _, err := app.LoadBookDetails(ctx, isbn13); err != nil {
		return app.Bookmarks.Has(isbn13), err
	}
	return app.Bookmarks.Toggle(ctx, isbn13), nil
}

// AddToCart places qty copies of a book into the cart, resolving the
// line fields from the catalog or the backend.
func (app *AppStore) AddToCart(ctx context.Context, isbn13 string, qty int) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	details, err := app.LoadBookDetails(ctx, isbn13)
	if err != nil {
		return err
	}
	if qty < 1 {
		qty = 1
	}
	app.Cart.Add(ctx, CartItem{
		ISBN13: details.ISBN13,
		Title:  details.Title,
		Price:  details.Price,
		Image:  details.Image,
		Qty:    qty,
	})
	return nil
}

// ReconcileBookmarks refetches the record behind every bookmarked
// identifier and prunes the ones which failed to load.
func (app *AppStore) ReconcileBookmarks(ctx context.Context) {
	ids := app.Bookmarks.IDs()
	if len(ids) == 0 {
		return
	}

	var mu sync.Mutex
	valid := make([]string, 0, len(ids))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			details, err := app.client.GetBookDetails(gCtx, id)
			if err != nil {
				app.logger.Warn("app: bookmarked record failed to load", zap.String("book.isbn13", id), zap.Error(err))
				return nil
			}
			app.Catalog.Upsert(details)
			mu.Lock()
			valid = append(valid, id)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	app.mu.Lock()
	defer app.mu.Unlock()
	app.Bookmarks.PruneTo(ctx, valid)
}

// Login drives the session state machine around the mocked login
// endpoint. A rejected call leaves the session errored with no user.
func (app *AppStore) Login(ctx context.Context, email, password string) (User, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.Session.Begin()
	user, err := app.client.Login(ctx, email, password)
	if err != nil {
		app.Session.Fail(ctx, err.Error(), false)
		return User{}, err
	}
	app.Session.Succeed(ctx, user)
	return user, nil
}

// Signup registers a new user and authenticates the session with it.
func (app *AppStore) Signup(ctx context.Context, name, email, password string) (User, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.Session.Begin()
	user, err := app.client.Signup(ctx, name, email, password)
	if err != nil {
		app.Session.Fail(ctx, err.Error(), false)
		return User{}, err
	}
	app.Session.Succeed(ctx, user)
	return user, nil
}

// UpdateProfile applies a profile change to the authenticated user.
// On rejection the prior user record stays fully unchanged, partial
// updates never stick.
func (app *AppStore) UpdateProfile(ctx context.Context, name, email string) (User, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	current, ok := app.Session.User()
	if !ok {
		return User{}, NewValidationError(401, "no authenticated user")
	}

	app.Session.Begin()
	user, err := app.client.UpdateProfile(ctx, name, email, current.ID)
	if err != nil {
		app.Session.Fail(ctx, err.Error(), true)
		return User{}, err
	}
	app.Session.Succeed(ctx, user)
	return user, nil
}

// ResetPassword requests a password reset for the given email.
func (app *AppStore) ResetPassword(ctx context.Context, email string) (string, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.Session.Begin()
	sentTo, err := app.client.ResetPassword(ctx, email)
	if err != nil {
		app.Session.Fail(ctx, err.Error(), true)
		return "", err
	}
	app.Session.Finish()
	return sentTo, nil
}

// SetNewPassword installs a replacement password from a reset flow.
func (app *AppStore) SetNewPassword(ctx context.Context, password, token string) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.Session.Begin()
	if err := app.client.SetNewPassword(ctx, password, token); err != nil {
		app.Session.Fail(ctx, err.Error(), true)
		return err
	}
	app.Session.Finish()
	return nil
}

// ChangePassword replaces the password of the authenticated user.
func (app *AppStore) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.Session.Begin()
	if err := app.client.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		app.Session.Fail(ctx, err.Error(), true)
		return err
	}
	app.Session.Finish()
	return nil
}

// Logout terminates the session and clears the persisted user.
func (app *AppStore) Logout(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if err := app.client.Logout(ctx); err != nil {
		return err
	}
	app.Session.Clear(ctx)
	return nil
}
