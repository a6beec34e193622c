package bookshop

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockSnapshotStorage struct {
	PersistFunc func(ctx context.Context, key string, value any)
	RestoreFunc func(ctx context.Context, key string, out any) bool
}

// Persist mocks the behavior of mirroring a snapshot.
func (m *MockSnapshotStorage) Persist(ctx context.Context, key string, value any) {
	m.PersistFunc(ctx, key, value)
}

// Restore mocks the behavior of reading a snapshot back.
func (m *MockSnapshotStorage) Restore(ctx context.Context, key string, out any) bool {
	return m.RestoreFunc(ctx, key, out)
}

// MockBookshopClient implements a fake remote data client.
type MockBookshopClient struct {
	GetNewReleasesFunc func(ctx context.Context) ([]BookBase, error)
	SearchBooksFunc    func(ctx context.Context, query string, page int) (SearchResult, error)
	GetBookDetailsFunc func(ctx context.Context, isbn13 string) (BookDetails, error)
	LoginFunc          func(ctx context.Context, email, password string) (User, error)
	SignupFunc         func(ctx context.Context, name, email, password string) (User, error)
	ResetPasswordFunc  func(ctx context.Context, email string) (string, error)
	SetNewPasswordFunc func(ctx context.Context, password, token string) error
	UpdateProfileFunc  func(ctx context.Context, name, email, userID string) (User, error)
	ChangePasswordFunc func(ctx context.Context, currentPassword, newPassword string) error
	LogoutFunc         func(ctx context.Context) error
}

func (m *MockBookshopClient) GetNewReleases(ctx context.Context) ([]BookBase, error) {
	return m.GetNewReleasesFunc(ctx)
}

func (m *MockBookshopClient) SearchBooks(ctx context.Context, query string, page int) (SearchResult, error) {
	return m.SearchBooksFunc(ctx, query, page)
}

func (m *MockBookshopClient) GetBookDetails(ctx context.Context, isbn13 string) (BookDetails, error) {
	return m.GetBookDetailsFunc(ctx, isbn13)
}

func (m *MockBookshopClient) Login(ctx context.Context, email, password string) (User, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *MockBookshopClient) Signup(ctx context.Context, name, email, password string) (User, error) {
	return m.SignupFunc(ctx, name, email, password)
}

func (m *MockBookshopClient) ResetPassword(ctx context.Context, email string) (string, error) {
	return m.ResetPasswordFunc(ctx, email)
}

func (m *MockBookshopClient) SetNewPassword(ctx context.Context, password, token string) error {
	return m.SetNewPasswordFunc(ctx, password, token)
}

func (m *MockBookshopClient) UpdateProfile(ctx context.Context, name, email, userID string) (User, error) {
	return m.UpdateProfileFunc(ctx, name, email, userID)
}

func (m *MockBookshopClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return m.ChangePasswordFunc(ctx, currentPassword, newPassword)
}

func (m *MockBookshopClient) Logout(ctx context.Context) error {
	return m.LogoutFunc(ctx)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
