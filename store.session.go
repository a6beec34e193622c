package bookshop

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SessionStore tracks the current authenticated user through the
// states anonymous, authenticating, authenticated and errored. A
// non-nil user always means authenticated. Every mutation mirrors
// the user record to the persistence layer under the auth_user key.
type SessionStore struct {
	logger  *zap.Logger
	storage SnapshotStorage
	mu      sync.Mutex
	state   SessionState
	user    *User
	err     string
}

// NewSessionStore provides a session initialized from the persisted
// user record. Absence of a record starts the session anonymous.
func NewSessionStore(ctx context.Context, logger *zap.Logger, storage SnapshotStorage) *SessionStore {
	ss := &SessionStore{
		logger:  logger,
		storage: storage,
		state:   StateAnonymous,
	}

	var user User
	if ss.storage.Restore(ctx, AuthUserKey, &user) && len(user.ID) != 0 {
		ss.user = &user
		ss.state = StateAuthenticated
		ss.logger.Info("session: restored authenticated user", zap.String("user.id", user.ID))
	}
	return ss
}

// Begin marks a session mutation in flight: loading set, error cleared.
func (ss *SessionStore) Begin() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.state = StateAuthenticating
	ss.err = ""
}

// Succeed installs the authenticated user and persists it.
func (ss *SessionStore) Succeed(ctx context.Context, user User) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.state = StateAuthenticated
	ss.user = &user
	ss.err = ""
	ss.persistLocked(ctx)
}

// Fail records a rejected session mutation. The user is cleared unless
// keepUser is set, profile related failures retain the prior record
// untouched so no partial update ever sticks.
func (ss *SessionStore) Fail(ctx context.Context, message string, keepUser bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.state = StateErrored
	ss.err = message
	if !keepUser {
		ss.user = nil
	}
	ss.persistLocked(ctx)
}

// Finish completes a session mutation which does not alter the user,
// returning to the state implied by its presence.
func (ss *SessionStore) Finish() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.err = ""
	if ss.user != nil {
		ss.state = StateAuthenticated
	} else {
		ss.state = StateAnonymous
	}
}

// Clear resets the session to anonymous and removes the persisted
// record. It backs the logout operation.
func (ss *SessionStore) Clear(ctx context.Context) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.state = StateAnonymous
	ss.user = nil
	ss.err = ""
	ss.persistLocked(ctx)
}

// User returns a copy of the current user record if one is set.
func (ss *SessionStore) User() (User, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.user == nil {
		return User{}, false
	}
	return *ss.user, true
}

// State returns the current session state.
func (ss *SessionStore) State() SessionState {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.state
}

// IsAuthenticated reports whether a user record is installed.
func (ss *SessionStore) IsAuthenticated() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.user != nil
}

// Loading reports whether a session mutation is in flight.
func (ss *SessionStore) Loading() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.state == StateAuthenticating
}

// Err returns the last recorded session error message.
func (ss *SessionStore) Err() string {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.err
}

// persistLocked mirrors the user record, removing the key when no
// user is set. Callers must hold the lock.
func (ss *SessionStore) persistLocked(ctx context.Context) {
	if ss.user == nil {
		ss.storage.Persist(ctx, AuthUserKey, nil)
		return
	}
	ss.storage.Persist(ctx, AuthUserKey, ss.user)
}
