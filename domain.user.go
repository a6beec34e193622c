package bookshop

// User represents the authenticated storefront user. The backend
// being mocked, records are minted on this side with a generated
// identifier and never verified against real credentials.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SessionState enumerates the session store lifecycle.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
	StateErrored        SessionState = "errored"
)
