package services

import (
	"context"

	"github.com/go-authgate/authfront/internal/backend"
)

// fakeBackend is a scriptable backend.Client that counts every call, so
// tests can assert which backend operations ran (and, critically, which
// did not).
type fakeBackend struct {
	loginResult  *backend.Result
	loginErr     error
	logoutStatus int
	logoutErr    error
	checkStatus  int
	checkErr     error

	createResult *backend.Result
	createErr    error
	modifyResult *backend.Result
	modifyErr    error
	deleteStatus int
	deleteErr    error
	getResult    *backend.Result
	getErr       error
	listResult   *backend.Result
	listErr      error
	pwdStatus    int
	pwdErr       error
	roleStatus   int
	roleErr      error

	calls struct {
		login, logout, check                    int
		create, modify, delete, get, list      int
		modifyPassword, assignRole             int
	}

	lastLoginPayload []byte
	lastToken        string
	lastUserID       string
	lastRoleArgs     [3]string // projectID, userID, roleID
}

var _ backend.Client = (*fakeBackend)(nil)

func (f *fakeBackend) Login(_ context.Context, payload []byte) (*backend.Result, error) {
	f.calls.login++
	f.lastLoginPayload = payload
	return f.loginResult, f.loginErr
}

func (f *fakeBackend) Logout(_ context.Context, token string) (int, error) {
	f.calls.logout++
	f.lastToken = token
	return f.logoutStatus, f.logoutErr
}

func (f *fakeBackend) CheckToken(_ context.Context, token string) (int, error) {
	f.calls.check++
	f.lastToken = token
	return f.checkStatus, f.checkErr
}

func (f *fakeBackend) CreateUser(_ context.Context, _ []byte, token string) (*backend.Result, error) {
	f.calls.create++
	f.lastToken = token
	return f.createResult, f.createErr
}

func (f *fakeBackend) ModifyUser(
	_ context.Context,
	userID string,
	_ []byte,
	token string,
) (*backend.Result, error) {
	f.calls.modify++
	f.lastUserID = userID
	f.lastToken = token
	return f.modifyResult, f.modifyErr
}

func (f *fakeBackend) DeleteUser(_ context.Context, userID, token string) (int, error) {
	f.calls.delete++
	f.lastUserID = userID
	f.lastToken = token
	return f.deleteStatus, f.deleteErr
}

func (f *fakeBackend) GetUser(_ context.Context, userID, token string) (*backend.Result, error) {
	f.calls.get++
	f.lastUserID = userID
	f.lastToken = token
	return f.getResult, f.getErr
}

func (f *fakeBackend) ListUsers(_ context.Context, token string) (*backend.Result, error) {
	f.calls.list++
	f.lastToken = token
	return f.listResult, f.listErr
}

func (f *fakeBackend) ModifyPassword(
	_ context.Context,
	userID string,
	_ []byte,
	token string,
) (int, error) {
	f.calls.modifyPassword++
	f.lastUserID = userID
	f.lastToken = token
	return f.pwdStatus, f.pwdErr
}

func (f *fakeBackend) AssignRole(
	_ context.Context,
	token, projectID, userID, roleID string,
) (int, error) {
	f.calls.assignRole++
	f.lastToken = token
	f.lastRoleArgs = [3]string{projectID, userID, roleID}
	return f.roleStatus, f.roleErr
}

func (f *fakeBackend) totalCalls() int {
	return f.calls.login + f.calls.logout + f.calls.check +
		f.calls.create + f.calls.modify + f.calls.delete +
		f.calls.get + f.calls.list + f.calls.modifyPassword +
		f.calls.assignRole
}
