package shaping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginPayloadShape(t *testing.T) {
	svc := NewKeystoneService("corp")

	payload, err := svc.LoginPayload("alice_w", "s3cret!Pass")
	require.NoError(t, err)

	var req ksAuthRequest
	require.NoError(t, json.Unmarshal(payload, &req))

	assert.Equal(t, []string{"password"}, req.Auth.Identity.Methods)
	assert.Equal(t, "alice_w", req.Auth.Identity.Password.User.Name)
	assert.Equal(t, "corp", req.Auth.Identity.Password.User.Domain.Name)
	assert.Equal(t, "s3cret!Pass", req.Auth.Identity.Password.User.Password)
}

func TestEmptyDomainDefaults(t *testing.T) {
	svc := NewKeystoneService("")

	payload, err := svc.LoginPayload("alice_w", "pw")
	require.NoError(t, err)

	var req ksAuthRequest
	require.NoError(t, json.Unmarshal(payload, &req))
	assert.Equal(t, "default", req.Auth.Identity.Password.User.Domain.Name)
}

func TestCreateUserPayloadEnablesUser(t *testing.T) {
	svc := NewKeystoneService("default")

	payload, err := svc.CreateUserPayload(UserDetails{
		Name:        "alice_w",
		Password:    "s3cret!Pass",
		Email:       "alice@example.com",
		Description: "ops",
	})
	require.NoError(t, err)

	var wrapper ksUserWrapper
	require.NoError(t, json.Unmarshal(payload, &wrapper))

	assert.Equal(t, "alice_w", wrapper.User.Name)
	assert.Equal(t, "alice@example.com", wrapper.User.Email)
	require.NotNil(t, wrapper.User.Enabled)
	assert.True(t, *wrapper.User.Enabled)
}

func TestModifyUserPayloadOmitsUnsetFields(t *testing.T) {
	svc := NewKeystoneService("default")

	payload, err := svc.ModifyUserPayload(ModifyUser{Email: "new@example.com"})
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))

	user := raw["user"]
	assert.Equal(t, "new@example.com", user["email"])
	assert.NotContains(t, user, "enabled")
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "name")
}

func TestModifyPasswordPayload(t *testing.T) {
	svc := NewKeystoneService("default")

	payload, err := svc.ModifyPasswordPayload(ModifyPassword{
		OriginalPassword: "Old!pass123",
		Password:         "N3w!passw0rd",
	})
	require.NoError(t, err)

	var req ksPasswordChange
	require.NoError(t, json.Unmarshal(payload, &req))
	assert.Equal(t, "Old!pass123", req.User.OriginalPassword)
	assert.Equal(t, "N3w!passw0rd", req.User.Password)
}

func TestReshapeUserFlattensWrapper(t *testing.T) {
	svc := NewKeystoneService("default")

	out, err := svc.ReshapeUser([]byte(`{"user":{"id":"u-1","name":"alice_w","email":"a@b.c","enabled":true}}`))
	require.NoError(t, err)

	var record UserRecord
	require.NoError(t, json.Unmarshal(out, &record))
	assert.Equal(t, "u-1", record.ID)
	assert.Equal(t, "alice_w", record.Name)
	assert.True(t, record.Enabled)
}

func TestReshapeUserMalformedBody(t *testing.T) {
	svc := NewKeystoneService("default")

	_, err := svc.ReshapeUser([]byte("not json"))
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestReshapeUserListEmpty(t *testing.T) {
	svc := NewKeystoneService("default")

	out, err := svc.ReshapeUserList([]byte(`{"users":[]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[]}`, string(out))
}

func TestParseUserMissingEnabledDefaultsFalse(t *testing.T) {
	svc := NewKeystoneService("default")

	record, err := svc.ParseUser([]byte(`{"user":{"id":"u-1","name":"alice_w"}}`))
	require.NoError(t, err)
	assert.False(t, record.Enabled)
}
