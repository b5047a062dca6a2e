package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-authgate/authfront/internal/backend"
	"github.com/go-authgate/authfront/internal/metrics"
	"github.com/go-authgate/authfront/internal/shaping"
)

// TokenService orchestrates login, logout, and token validation against
// the identity backend. It holds no per-request state; concurrent use
// needs no locking.
type TokenService struct {
	backend backend.Client
	shaping shaping.Service
	metrics metrics.Recorder
}

func NewTokenService(
	b backend.Client,
	s shaping.Service,
	m metrics.Recorder,
) *TokenService {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &TokenService{
		backend: b,
		shaping: s,
		metrics: m,
	}
}

// LoginResult is the outcome of a login call: the backend's status and
// the minted token. The body returned to the caller is always empty; the
// token travels only in the session cookie.
type LoginResult struct {
	Status int
	Token  string
}

// Login forwards the credentials and returns the backend's status plus
// the minted token. Credential shape is deliberately NOT validated here:
// login delegates all credential correctness checking to the backend,
// unlike user creation.
func (s *TokenService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	start := time.Now()

	if s.shaping == nil {
		return nil, ErrBackendUnavailable
	}

	payload, err := s.shaping.LoginPayload(username, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	res, err := s.backend.Login(ctx, payload)
	if err != nil {
		s.metrics.RecordBackendError("login")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	s.metrics.RecordLogin(isSuccess(res.Status), time.Since(start))
	log.Printf("[Token] login user=%s status=%d", username, res.Status)

	return &LoginResult{
		Status: res.Status,
		Token:  res.SubjectToken,
	}, nil
}

// Logout revokes the token with the backend and returns its status. An
// empty token is tolerated and forwarded; the caller expires the session
// cookie regardless of what happens here.
func (s *TokenService) Logout(ctx context.Context, token string) (int, error) {
	status, err := s.backend.Logout(ctx, token)
	if err != nil {
		s.metrics.RecordBackendError("logout")
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	s.metrics.RecordLogout(status)
	log.Printf("[Token] logout status=%d", status)

	return status, nil
}

// CheckToken asks the backend to validate the token and returns its
// status verbatim, with no local interpretation.
func (s *TokenService) CheckToken(ctx context.Context, token string) (int, error) {
	start := time.Now()

	status, err := s.backend.CheckToken(ctx, token)
	if err != nil {
		s.metrics.RecordBackendError("check_token")
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	s.metrics.RecordTokenCheck(status, time.Since(start))

	return status, nil
}
