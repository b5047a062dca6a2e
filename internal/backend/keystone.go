package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	httpclient "github.com/appleboy/go-httpclient"

	"github.com/go-authgate/authfront/internal/config"
	"github.com/go-authgate/authfront/internal/retry"
)

// Header carrying the bearer token on backend calls, Keystone style.
const AuthTokenHeader = "X-Auth-Token"

// Header carrying the token a login or logout call operates on.
const SubjectTokenHeader = "X-Subject-Token"

// KeystoneClient talks to a Keystone v3-style identity API. It holds no
// per-request state; one instance serves arbitrarily many concurrent
// requests.
type KeystoneClient struct {
	baseURL string
	client  *retry.Client
}

// Compile-time interface check.
var _ Client = (*KeystoneClient)(nil)

// NewKeystoneClient creates the identity backend client from
// configuration. With the default of zero retries every call is
// at-most-once.
func NewKeystoneClient(cfg *config.Config) (*KeystoneClient, error) {
	// Create HTTP client with automatic service-to-service authentication
	authClient, err := httpclient.NewAuthClient(
		cfg.IdentityAPIAuthMode,
		cfg.IdentityAPIAuthSecret,
		httpclient.WithTimeout(cfg.IdentityAPITimeout),
		httpclient.WithHeaderName(cfg.IdentityAPIAuthHeader),
		httpclient.WithInsecureSkipVerify(cfg.IdentityAPIInsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	return &KeystoneClient{
		baseURL: cfg.IdentityAPIURL,
		client: retry.NewClient(
			retry.WithHTTPClient(authClient),
			retry.WithMaxRetries(cfg.IdentityAPIMaxRetries),
			retry.WithInitialRetryDelay(cfg.IdentityAPIRetryDelay),
			retry.WithMaxRetryDelay(cfg.IdentityAPIMaxRetryDelay),
		),
	}, nil
}

// do issues one request and collects the verbatim outcome. The token, if
// non-empty, is forwarded as the bearer header.
func (k *KeystoneClient) do(
	ctx context.Context,
	method, path string,
	payload []byte,
	headers map[string]string,
) (*Result, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, k.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}

	resp, err := k.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrInvalidResp)
	}

	return &Result{
		Status:       resp.StatusCode,
		Body:         respBody,
		SubjectToken: resp.Header.Get(SubjectTokenHeader),
	}, nil
}

// Login exchanges a credential payload for a token. The minted token
// arrives in the X-Subject-Token response header, not the body.
func (k *KeystoneClient) Login(ctx context.Context, payload []byte) (*Result, error) {
	return k.do(ctx, http.MethodPost, "/v3/auth/tokens", payload, nil)
}

// Logout revokes the given token. An empty token is forwarded as-is; the
// backend decides what that means.
func (k *KeystoneClient) Logout(ctx context.Context, token string) (int, error) {
	res, err := k.do(ctx, http.MethodDelete, "/v3/auth/tokens", nil, map[string]string{
		SubjectTokenHeader: token,
	})
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// CheckToken asks the backend whether the token is valid. The status is
// returned verbatim with no local interpretation.
func (k *KeystoneClient) CheckToken(ctx context.Context, token string) (int, error) {
	res, err := k.do(ctx, http.MethodHead, "/v3/auth/tokens", nil, map[string]string{
		SubjectTokenHeader: token,
	})
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

func (k *KeystoneClient) CreateUser(
	ctx context.Context,
	payload []byte,
	token string,
) (*Result, error) {
	return k.do(ctx, http.MethodPost, "/v3/users", payload, map[string]string{
		AuthTokenHeader: token,
	})
}

func (k *KeystoneClient) ModifyUser(
	ctx context.Context,
	userID string,
	payload []byte,
	token string,
) (*Result, error) {
	return k.do(ctx, http.MethodPatch, "/v3/users/"+userID, payload, map[string]string{
		AuthTokenHeader: token,
	})
}

func (k *KeystoneClient) DeleteUser(ctx context.Context, userID, token string) (int, error) {
	res, err := k.do(ctx, http.MethodDelete, "/v3/users/"+userID, nil, map[string]string{
		AuthTokenHeader: token,
	})
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

func (k *KeystoneClient) GetUser(ctx context.Context, userID, token string) (*Result, error) {
	return k.do(ctx, http.MethodGet, "/v3/users/"+userID, nil, map[string]string{
		AuthTokenHeader: token,
	})
}

func (k *KeystoneClient) ListUsers(ctx context.Context, token string) (*Result, error) {
	return k.do(ctx, http.MethodGet, "/v3/users", nil, map[string]string{
		AuthTokenHeader: token,
	})
}

func (k *KeystoneClient) ModifyPassword(
	ctx context.Context,
	userID string,
	payload []byte,
	token string,
) (int, error) {
	res, err := k.do(ctx, http.MethodPost, "/v3/users/"+userID+"/password", payload,
		map[string]string{AuthTokenHeader: token})
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// AssignRole grants roleID to userID on projectID. Issued once per
// successful user creation as a fire-and-forget side effect.
func (k *KeystoneClient) AssignRole(
	ctx context.Context,
	token, projectID, userID, roleID string,
) (int, error) {
	path := "/v3/projects/" + projectID + "/users/" + userID + "/roles/" + roleID
	res, err := k.do(ctx, http.MethodPut, path, nil, map[string]string{
		AuthTokenHeader: token,
	})
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}
