package handlers

import (
	"context"

	"github.com/go-authgate/authfront/internal/backend"
)

// stubBackend returns canned results so handler tests can exercise the
// HTTP contract without a real identity backend.
type stubBackend struct {
	loginResult  *backend.Result
	logoutStatus int
	checkStatus  int
	createResult *backend.Result
	getResult    *backend.Result
	pwdStatus    int
	roleStatus   int

	logoutToken string
	checkToken  string
	createCalls int
}

var _ backend.Client = (*stubBackend)(nil)

func (s *stubBackend) Login(context.Context, []byte) (*backend.Result, error) {
	return s.loginResult, nil
}

func (s *stubBackend) Logout(_ context.Context, token string) (int, error) {
	s.logoutToken = token
	return s.logoutStatus, nil
}

func (s *stubBackend) CheckToken(_ context.Context, token string) (int, error) {
	s.checkToken = token
	return s.checkStatus, nil
}

func (s *stubBackend) CreateUser(context.Context, []byte, string) (*backend.Result, error) {
	s.createCalls++
	return s.createResult, nil
}

func (s *stubBackend) ModifyUser(context.Context, string, []byte, string) (*backend.Result, error) {
	return &backend.Result{Status: 200, Body: []byte(`{"user":{}}`)}, nil
}

func (s *stubBackend) DeleteUser(context.Context, string, string) (int, error) {
	return 204, nil
}

func (s *stubBackend) GetUser(context.Context, string, string) (*backend.Result, error) {
	return s.getResult, nil
}

func (s *stubBackend) ListUsers(context.Context, string) (*backend.Result, error) {
	return &backend.Result{Status: 200, Body: []byte(`{"users":[]}`)}, nil
}

func (s *stubBackend) ModifyPassword(context.Context, string, []byte, string) (int, error) {
	return s.pwdStatus, nil
}

func (s *stubBackend) AssignRole(context.Context, string, string, string, string) (int, error) {
	return s.roleStatus, nil
}
