package bookshop

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAppStore(client BookshopClientProvider) (*AppStore, *MemorySnapshotStorage) {
	storage := NewMemorySnapshotStorage(zap.NewNop())
	return newAppStore(context.TODO(), zap.NewNop(), &Config{}, client, storage), storage
}

// detailsFor builds a canned record the mocked client can serve.
func detailsFor(isbn13 string) BookDetails {
	return BookDetails{
		BookBase: BookBase{
			ISBN13: isbn13,
			Title:  "Book " + isbn13,
			Price:  "$10",
			Image:  "https://itbook.store/img/books/" + isbn13 + ".png",
		},
	}
}

// Ensure details are fetched once then served from the catalog.
func TestAppStore_LoadBookDetails(t *testing.T) {
	var fetches int64
	client := &MockBookshopClient{
		GetBookDetailsFunc: func(_ context.Context, isbn13 string) (BookDetails, error) {
			atomic.AddInt64(&fetches, 1)
			return detailsFor(isbn13), nil
		},
	}
	app, _ := newTestAppStore(client)

	first, err := app.LoadBookDetails(context.TODO(), "A")
	require.NoError(t, err)
	second, err := app.LoadBookDetails(context.TODO(), "A")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fetches))
	assert.Equal(t, 1, app.Catalog.Len())
}

// Ensure the catalog upsert lands strictly before the bookmark toggle.
func TestAppStore_BookmarkBook(t *testing.T) {
	client := &MockBookshopClient{
		GetBookDetailsFunc: func(_ context.Context, isbn13 string) (BookDetails, error) {
			return detailsFor(isbn13), nil
		},
	}
	app, _ := newTestAppStore(client)

	bookmarked, err := app.BookmarkBook(context.TODO(), "A")
	require.NoError(t, err)
	assert.True(t, bookmarked)

	// every bookmarked id has its backing record cached.
	for _, id := range app.Bookmarks.IDs() {
		_, ok := app.Catalog.Get(id)
		assert.True(t, ok)
	}

	bookmarked, err = app.BookmarkBook(context.TODO(), "A")
	require.NoError(t, err)
	assert.False(t, bookmarked)
	assert.Empty(t, app.Bookmarks.IDs())
}

// Ensure a failed detail fetch leaves the bookmark set untouched.
func TestAppStore_BookmarkBook_FetchFailure(t *testing.T) {
	client := &MockBookshopClient{
		GetBookDetailsFunc: func(_ context.Context, _ string) (BookDetails, error) {
			return BookDetails{}, NewAPIError("[books] Not found", "")
		},
	}
	app, _ := newTestAppStore(client)

	_, err := app.BookmarkBook(context.TODO(), "A")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, app.Bookmarks.IDs())
}

// Ensure adding to the cart resolves line fields from the record.
func TestAppStore_AddToCart(t *testing.T) {
	client := &MockBookshopClient{
		GetBookDetailsFunc: func(_ context.Context, isbn13 string) (BookDetails, error) {
			return detailsFor(isbn13), nil
		},
	}
	app, _ := newTestAppStore(client)

	require.NoError(t, app.AddToCart(context.TODO(), "A", 1))
	require.NoError(t, app.AddToCart(context.TODO(), "A", 2))

	items := app.Cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Book A", items[0].Title)
	assert.Equal(t, "$10", items[0].Price)
	assert.Equal(t, 3, items[0].Qty)
}

// Ensure reconciliation prunes bookmarks whose record failed to load.
func TestAppStore_ReconcileBookmarks(t *testing.T) {
	storage := NewMemorySnapshotStorage(zap.NewNop())
	storage.SeedRaw(BookmarksKey, []byte(`["A","B","C"]`))

	client := &MockBookshopClient{
		GetBookDetailsFunc: func(_ context.Context, isbn13 string) (BookDetails, error) {
			if isbn13 == "B" {
				return BookDetails{}, NewAPIError("[books] Not found", "")
			}
			return detailsFor(isbn13), nil
		},
	}
	app := newAppStore(context.TODO(), zap.NewNop(), &Config{}, client, storage)

	app.ReconcileBookmarks(context.TODO())

	assert.Equal(t, []string{"A", "C"}, app.Bookmarks.IDs())
	_, ok := app.Catalog.Get("A")
	assert.True(t, ok)
	_, ok = app.Catalog.Get("B")
	assert.False(t, ok)
}

// Ensure a successful login authenticates and persists the session.
func TestAppStore_Login(t *testing.T) {
	client := &MockBookshopClient{
		LoginFunc: func(_ context.Context, email, _ string) (User, error) {
			return User{ID: "u:0", Email: email}, nil
		},
	}
	app, storage := newTestAppStore(client)

	user, err := app.Login(context.TODO(), "jerome@bookshop.dev", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u:0", user.ID)
	assert.Equal(t, StateAuthenticated, app.Session.State())

	var persisted User
	require.True(t, storage.Restore(context.TODO(), AuthUserKey, &persisted))
	assert.Equal(t, "jerome@bookshop.dev", persisted.Email)
}

// Ensure a login rejected by validation never installs a user. This
// exercises the real mocked endpoint end to end, latency disabled.
func TestAppStore_Login_EmptyPassword(t *testing.T) {
	storage := NewMemorySnapshotStorage(zap.NewNop())
	client := NewBookshopClient(zap.NewNop(), &Config{}, NewNoDelayer(), NewIDsHandler())
	app := newAppStore(context.TODO(), zap.NewNop(), &Config{}, client, storage)

	_, err := app.Login(context.TODO(), "jerome@bookshop.dev", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, http.StatusBadRequest, vErr.Status)

	assert.Equal(t, StateErrored, app.Session.State())
	_, ok := app.Session.User()
	assert.False(t, ok)
	var persisted User
	assert.False(t, storage.Restore(context.TODO(), AuthUserKey, &persisted))
}

// Ensure a rejected profile update keeps the prior user as a whole.
func TestAppStore_UpdateProfile_Failure(t *testing.T) {
	client := &MockBookshopClient{
		LoginFunc: func(_ context.Context, email, _ string) (User, error) {
			return User{ID: "u:0", Email: email, Name: "Jerome"}, nil
		},
		UpdateProfileFunc: func(_ context.Context, _, _, _ string) (User, error) {
			return User{}, NewValidationError(http.StatusBadRequest, "email is not valid")
		},
	}
	app, _ := newTestAppStore(client)

	_, err := app.Login(context.TODO(), "jerome@bookshop.dev", "secret")
	require.NoError(t, err)

	_, err = app.UpdateProfile(context.TODO(), "Jerome", "broken-email")
	require.Error(t, err)

	assert.Equal(t, StateErrored, app.Session.State())
	user, ok := app.Session.User()
	require.True(t, ok)
	assert.Equal(t, "u:0", user.ID)
	assert.Equal(t, "jerome@bookshop.dev", user.Email)
}

// Ensure a profile update without session is rejected upfront.
func TestAppStore_UpdateProfile_Anonymous(t *testing.T) {
	app, _ := newTestAppStore(&MockBookshopClient{})

	_, err := app.UpdateProfile(context.TODO(), "Jerome", "jerome@bookshop.dev")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 401, vErr.Status)
}

// Ensure logout resets the session and removes the persisted record.
func TestAppStore_Logout(t *testing.T) {
	client := &MockBookshopClient{
		LoginFunc: func(_ context.Context, email, _ string) (User, error) {
			return User{ID: "u:0", Email: email}, nil
		},
		LogoutFunc: func(_ context.Context) error { return nil },
	}
	app, storage := newTestAppStore(client)

	_, err := app.Login(context.TODO(), "jerome@bookshop.dev", "secret")
	require.NoError(t, err)
	require.NoError(t, app.Logout(context.TODO()))

	assert.Equal(t, StateAnonymous, app.Session.State())
	var persisted User
	assert.False(t, storage.Restore(context.TODO(), AuthUserKey, &persisted))
}

// Ensure neutral session mutations end back on the implied state.
func TestAppStore_ResetPassword(t *testing.T) {
	client := &MockBookshopClient{
		ResetPasswordFunc: func(_ context.Context, email string) (string, error) {
			return email, nil
		},
	}
	app, _ := newTestAppStore(client)

	sentTo, err := app.ResetPassword(context.TODO(), "jerome@bookshop.dev")
	require.NoError(t, err)
	assert.Equal(t, "jerome@bookshop.dev", sentTo)
	assert.Equal(t, StateAnonymous, app.Session.State())
	assert.False(t, app.Session.Loading())
}
