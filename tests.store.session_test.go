package bookshop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessionStore() (*SessionStore, *MemorySnapshotStorage) {
	storage := NewMemorySnapshotStorage(zap.NewNop())
	return NewSessionStore(context.TODO(), zap.NewNop(), storage), storage
}

// Ensure a fresh session without persisted user starts anonymous.
func TestSessionStore_StartsAnonymous(t *testing.T) {
	ss, _ := newTestSessionStore()

	assert.Equal(t, StateAnonymous, ss.State())
	assert.False(t, ss.IsAuthenticated())
	assert.False(t, ss.Loading())
	_, ok := ss.User()
	assert.False(t, ok)
}

// Ensure a persisted user record restores an authenticated session.
func TestSessionStore_RestoresPersistedUser(t *testing.T) {
	storage := NewMemorySnapshotStorage(zap.NewNop())
	storage.Persist(context.TODO(), AuthUserKey, &User{ID: "u:0", Email: "jerome@bookshop.dev"})

	ss := NewSessionStore(context.TODO(), zap.NewNop(), storage)
	assert.Equal(t, StateAuthenticated, ss.State())
	user, ok := ss.User()
	require.True(t, ok)
	assert.Equal(t, "u:0", user.ID)
}

// Ensure the full login lifecycle walks the expected states.
func TestSessionStore_LoginLifecycle(t *testing.T) {
	ss, storage := newTestSessionStore()

	ss.Begin()
	assert.Equal(t, StateAuthenticating, ss.State())
	assert.True(t, ss.Loading())

	ss.Succeed(context.TODO(), User{ID: "u:0", Email: "jerome@bookshop.dev"})
	assert.Equal(t, StateAuthenticated, ss.State())
	assert.Empty(t, ss.Err())

	var persisted User
	require.True(t, storage.Restore(context.TODO(), AuthUserKey, &persisted))
	assert.Equal(t, "u:0", persisted.ID)
}

// Ensure a rejected login clears the user and records the error.
func TestSessionStore_FailClearsUser(t *testing.T) {
	ss, storage := newTestSessionStore()
	ss.Succeed(context.TODO(), User{ID: "u:0", Email: "jerome@bookshop.dev"})

	ss.Begin()
	ss.Fail(context.TODO(), "password is required", false)

	assert.Equal(t, StateErrored, ss.State())
	assert.Equal(t, "password is required", ss.Err())
	_, ok := ss.User()
	assert.False(t, ok)

	var persisted User
	assert.False(t, storage.Restore(context.TODO(), AuthUserKey, &persisted))
}

// Ensure a rejected profile update retains the prior user untouched.
func TestSessionStore_FailKeepsUser(t *testing.T) {
	ss, storage := newTestSessionStore()
	ss.Succeed(context.TODO(), User{ID: "u:0", Email: "jerome@bookshop.dev", Name: "Jerome"})

	ss.Begin()
	ss.Fail(context.TODO(), "email is not valid", true)

	assert.Equal(t, StateErrored, ss.State())
	user, ok := ss.User()
	require.True(t, ok)
	assert.Equal(t, "Jerome", user.Name)

	var persisted User
	require.True(t, storage.Restore(context.TODO(), AuthUserKey, &persisted))
	assert.Equal(t, "u:0", persisted.ID)
}

// Ensure finishing a neutral mutation returns to the implied state.
func TestSessionStore_Finish(t *testing.T) {
	ss, _ := newTestSessionStore()

	ss.Begin()
	ss.Finish()
	assert.Equal(t, StateAnonymous, ss.State())

	ss.Succeed(context.TODO(), User{ID: "u:0", Email: "jerome@bookshop.dev"})
	ss.Begin()
	ss.Finish()
	assert.Equal(t, StateAuthenticated, ss.State())
}

// Ensure logout clears both the session and the persisted record.
func TestSessionStore_Clear(t *testing.T) {
	ss, storage := newTestSessionStore()
	ss.Succeed(context.TODO(), User{ID: "u:0", Email: "jerome@bookshop.dev"})

	ss.Clear(context.TODO())

	assert.Equal(t, StateAnonymous, ss.State())
	_, ok := ss.User()
	assert.False(t, ok)
	var persisted User
	assert.False(t, storage.Restore(context.TODO(), AuthUserKey, &persisted))
}
