package backend

import "context"

// Result is the verbatim outcome of one identity backend call. It is
// constructed by the client, consumed exactly once by the service that
// issued the call, and never cached or shared across requests.
type Result struct {
	Status       int
	Body         []byte
	SubjectToken string // Token minted by the backend (login only)
}

// Client is the identity backend collaborator. All calls are synchronous
// and at-most-once; timeout policy belongs to the underlying HTTP client.
type Client interface {
	// Token operations
	Login(ctx context.Context, payload []byte) (*Result, error)
	Logout(ctx context.Context, token string) (int, error)
	CheckToken(ctx context.Context, token string) (int, error)

	// User operations
	CreateUser(ctx context.Context, payload []byte, token string) (*Result, error)
	ModifyUser(ctx context.Context, userID string, payload []byte, token string) (*Result, error)
	DeleteUser(ctx context.Context, userID, token string) (int, error)
	GetUser(ctx context.Context, userID, token string) (*Result, error)
	ListUsers(ctx context.Context, token string) (*Result, error)
	ModifyPassword(ctx context.Context, userID string, payload []byte, token string) (int, error)
	AssignRole(ctx context.Context, token, projectID, userID, roleID string) (int, error)
}
