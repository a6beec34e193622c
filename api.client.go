package bookshop

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var _ BookshopClientProvider = (*BookshopClient)(nil) // ensure BookshopClient implements BookshopClientProvider.

// BookshopClientProvider defines the remote operations offered to the
// application store. The three read operations hit the books backend,
// the session operations are simulated on this side with an artificial
// latency and client-side validation only.
type BookshopClientProvider interface {
	GetNewReleases(ctx context.Context) ([]BookBase, error)
	SearchBooks(ctx context.Context, query string, page int) (SearchResult, error)
	GetBookDetails(ctx context.Context, isbn13 string) (BookDetails, error)
	Login(ctx context.Context, email, password string) (User, error)
	Signup(ctx context.Context, name, email, password string) (User, error)
	ResetPassword(ctx context.Context, email string) (string, error)
	SetNewPassword(ctx context.Context, password, token string) error
	UpdateProfile(ctx context.Context, name, email, userID string) (User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	Logout(ctx context.Context) error
}

// BookshopClient performs the typed request/response mapping against
// the books backend. Concurrent detail fetches for the same isbn13 are
// coalesced into a single outgoing request.
type BookshopClient struct {
	logger *zap.Logger
	config *Config
	client *http.Client
	delay  Delayer
	ids    UIDHandler
	group  singleflight.Group
}

// NewBookshopClient provides an instance of the remote data client.
func NewBookshopClient(logger *zap.Logger, config *Config, delay Delayer, ids UIDHandler) *BookshopClient {
	return &BookshopClient{
		logger: logger,
		config: config,
		client: &http.Client{Timeout: config.API.RequestTimeout},
		delay:  delay,
		ids:    ids,
	}
}

// doGet performs a GET call against the configured backend base url
// and decodes the json response body into out. All failure modes come
// back as *APIError so callers deal with one error shape.
func (c *BookshopClient) doGet(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.API.BaseURL()+path, nil)
	if err != nil {
		return NewAPIError("request", err.Error())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("client: transport failure", zap.String("path", path), zap.Error(err))
		return NewAPIError("transport", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("client: unexpected backend status", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return NewAPIError(strconv.Itoa(resp.StatusCode), "backend answered with status "+resp.Status)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("client: failed to decode backend response", zap.String("path", path), zap.Error(err))
		return NewAPIError("decode", err.Error())
	}
	return nil
}

// ensureSuccess maps the error code embedded in every backend payload.
// The backend reports success with the literal code "0".
func ensureSuccess(code string) error {
	if len(code) != 0 && code != "0" {
		return NewAPIError(code, "")
	}
	return nil
}
