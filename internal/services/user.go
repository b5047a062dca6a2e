package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-authgate/authfront/internal/backend"
	"github.com/go-authgate/authfront/internal/config"
	"github.com/go-authgate/authfront/internal/metrics"
	"github.com/go-authgate/authfront/internal/rules"
	"github.com/go-authgate/authfront/internal/shaping"
)

// UserService orchestrates user CRUD and password changes against the
// identity backend. Credential inputs are validated locally before any
// network call; a validation failure never reaches the backend.
type UserService struct {
	backend backend.Client
	shaping shaping.Service
	cfg     *config.Config
	metrics metrics.Recorder
}

func NewUserService(
	b backend.Client,
	s shaping.Service,
	cfg *config.Config,
	m metrics.Recorder,
) *UserService {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &UserService{
		backend: b,
		shaping: s,
		cfg:     cfg,
		metrics: m,
	}
}

// UserResult carries the backend's status and the (possibly reshaped)
// response body for operations that return one.
type UserResult struct {
	Status int
	Body   []byte
}

// CreateUser validates the full credentials locally, then forwards the
// creation. On 2xx the body is reshaped for the caller. Role assignment
// is a separate operation, not chained here.
func (s *UserService) CreateUser(
	ctx context.Context,
	token string,
	user shaping.UserDetails,
) (*UserResult, error) {
	if out := rules.ValidateCredentials(user.Name, user.Password); !out.Valid() {
		s.metrics.RecordValidationFailure(string(out.Violation))
		log.Printf("[User] create rejected user=%s rule=%s", user.Name, out.Violation)
		return nil, &ValidationError{Violation: out.Violation}
	}

	if s.shaping == nil {
		return nil, ErrBackendUnavailable
	}

	payload, err := s.shaping.CreateUserPayload(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	start := time.Now()
	res, err := s.backend.CreateUser(ctx, payload, token)
	if err != nil {
		s.metrics.RecordBackendError("create_user")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.metrics.RecordUserOperation("create", res.Status, time.Since(start))

	body := res.Body
	if isSuccess(res.Status) {
		body, err = s.shaping.ReshapeUser(res.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommunication, err)
		}
	}

	log.Printf("[User] create user=%s status=%d", user.Name, res.Status)

	return &UserResult{Status: res.Status, Body: body}, nil
}

// ModifyUser forwards a modification and relays status/body. Modify
// payloads are intentionally not validated against the credential rules;
// only creation and password changes are.
func (s *UserService) ModifyUser(
	ctx context.Context,
	token, userID string,
	user shaping.ModifyUser,
) (*UserResult, error) {
	if s.shaping == nil {
		return nil, ErrBackendUnavailable
	}

	payload, err := s.shaping.ModifyUserPayload(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	start := time.Now()
	res, err := s.backend.ModifyUser(ctx, userID, payload, token)
	if err != nil {
		s.metrics.RecordBackendError("modify_user")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.metrics.RecordUserOperation("modify", res.Status, time.Since(start))

	body := res.Body
	if isSuccess(res.Status) {
		body, err = s.shaping.ReshapeUser(res.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommunication, err)
		}
	}

	return &UserResult{Status: res.Status, Body: body}, nil
}

// DeleteUser forwards the deletion and returns the backend status. No
// body.
func (s *UserService) DeleteUser(ctx context.Context, token, userID string) (int, error) {
	start := time.Now()
	status, err := s.backend.DeleteUser(ctx, userID, token)
	if err != nil {
		s.metrics.RecordBackendError("delete_user")
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.metrics.RecordUserOperation("delete", status, time.Since(start))

	return status, nil
}

// GetUser fetches one user, reshaping the body on 2xx.
func (s *UserService) GetUser(ctx context.Context, token, userID string) (*UserResult, error) {
	if s.shaping == nil {
		return nil, ErrBackendUnavailable
	}

	start := time.Now()
	res, err := s.backend.GetUser(ctx, userID, token)
	if err != nil {
		s.metrics.RecordBackendError("get_user")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.metrics.RecordUserOperation("get", res.Status, time.Since(start))

	body := res.Body
	if isSuccess(res.Status) {
		body, err = s.shaping.ReshapeUser(res.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommunication, err)
		}
	}

	return &UserResult{Status: res.Status, Body: body}, nil
}

// ListUsers fetches all users, reshaping the body on 2xx through the
// multi-user path.
func (s *UserService) ListUsers(ctx context.Context, token string) (*UserResult, error) {
	if s.shaping == nil {
		return nil, ErrBackendUnavailable
	}

	start := time.Now()
	res, err := s.backend.ListUsers(ctx, token)
	if err != nil {
		s.metrics.RecordBackendError("list_users")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.metrics.RecordUserOperation("list", res.Status, time.Since(start))

	body := res.Body
	if isSuccess(res.Status) {
		body, err = s.shaping.ReshapeUserList(res.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommunication, err)
		}
	}

	return &UserResult{Status: res.Status, Body: body}, nil
}

// ModifyPassword changes a user's password. The target's current record
// is fetched first to learn the current username; only when that lookup
// yields a non-empty name is the new password validated against it. If
// the lookup fails or returns no name, validation is skipped and the
// change is forwarded anyway. That fallback is deliberate: the password
// write must not be blocked by a read problem.
func (s *UserService) ModifyPassword(
	ctx context.Context,
	token, userID string,
	pwd shaping.ModifyPassword,
) (int, error) {
	if s.shaping == nil {
		return 0, ErrBackendUnavailable
	}

	lookup, err := s.backend.GetUser(ctx, userID, token)
	if err != nil {
		s.metrics.RecordBackendError("modify_password")
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var currentName string
	if isSuccess(lookup.Status) {
		record, parseErr := s.shaping.ParseUser(lookup.Body)
		if parseErr != nil {
			log.Printf("[User] password change: lookup body unreadable for id=%s, skipping validation", userID)
		} else {
			currentName = record.Name
		}
	}

	if currentName != "" {
		if out := rules.ValidatePassword(pwd.Password, currentName); !out.Valid() {
			s.metrics.RecordValidationFailure(string(out.Violation))
			return 0, &ValidationError{Violation: out.Violation}
		}
	}

	payload, err := s.shaping.ModifyPasswordPayload(pwd)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	start := time.Now()
	status, err := s.backend.ModifyPassword(ctx, userID, payload, token)
	if err != nil {
		s.metrics.RecordBackendError("modify_password")
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.metrics.RecordUserOperation("modify_password", status, time.Since(start))

	log.Printf("[User] password change id=%s status=%d", userID, status)

	return status, nil
}

// AssignDefaultRole grants the configured default role on the configured
// default project to the given user. Issued once per successful creation,
// at the caller's request.
func (s *UserService) AssignDefaultRole(ctx context.Context, token, userID string) (int, error) {
	if s.cfg.DefaultProjectID == "" || s.cfg.DefaultRoleID == "" {
		return 0, ErrRoleDefaultsNotConfigured
	}

	start := time.Now()
	status, err := s.backend.AssignRole(ctx, token, s.cfg.DefaultProjectID, userID, s.cfg.DefaultRoleID)
	if err != nil {
		s.metrics.RecordBackendError("assign_role")
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.metrics.RecordUserOperation("assign_role", status, time.Since(start))

	return status, nil
}
