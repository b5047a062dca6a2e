package shaping

import (
	"encoding/json"
	"fmt"
)

// KeystoneService implements Service against the Keystone v3 wire schema.
type KeystoneService struct {
	domain string // domain new users and login requests are scoped to
}

var _ Service = (*KeystoneService)(nil)

func NewKeystoneService(domain string) *KeystoneService {
	if domain == "" {
		domain = "default"
	}
	return &KeystoneService{domain: domain}
}

// Keystone v3 request shapes.

type ksDomain struct {
	Name string `json:"name"`
}

type ksPasswordUser struct {
	Name     string   `json:"name"`
	Domain   ksDomain `json:"domain"`
	Password string   `json:"password"`
}

type ksAuthRequest struct {
	Auth struct {
		Identity struct {
			Methods  []string `json:"methods"`
			Password struct {
				User ksPasswordUser `json:"user"`
			} `json:"password"`
		} `json:"identity"`
	} `json:"auth"`
}

type ksUser struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	DomainID    string `json:"domain_id,omitempty"`
	Password    string `json:"password,omitempty"`
	Email       string `json:"email,omitempty"`
	Description string `json:"description,omitempty"`
	Enabled     *bool  `json:"enabled,omitempty"`
}

type ksUserWrapper struct {
	User ksUser `json:"user"`
}

type ksUserListWrapper struct {
	Users []ksUser `json:"users"`
}

type ksPasswordChange struct {
	User struct {
		OriginalPassword string `json:"original_password"`
		Password         string `json:"password"`
	} `json:"user"`
}

// LoginPayload builds the Keystone password-method auth request.
func (s *KeystoneService) LoginPayload(username, password string) ([]byte, error) {
	var req ksAuthRequest
	req.Auth.Identity.Methods = []string{"password"}
	req.Auth.Identity.Password.User = ksPasswordUser{
		Name:     username,
		Domain:   ksDomain{Name: s.domain},
		Password: password,
	}
	return json.Marshal(req)
}

// CreateUserPayload builds the Keystone user-creation request. Users are
// created enabled, in the configured domain.
func (s *KeystoneService) CreateUserPayload(user UserDetails) ([]byte, error) {
	enabled := true
	return json.Marshal(ksUserWrapper{User: ksUser{
		Name:        user.Name,
		DomainID:    s.domain,
		Password:    user.Password,
		Email:       user.Email,
		Description: user.Description,
		Enabled:     &enabled,
	}})
}

func (s *KeystoneService) ModifyUserPayload(user ModifyUser) ([]byte, error) {
	return json.Marshal(ksUserWrapper{User: ksUser{
		Email:       user.Email,
		Description: user.Description,
		Enabled:     user.Enabled,
	}})
}

func (s *KeystoneService) ModifyPasswordPayload(pwd ModifyPassword) ([]byte, error) {
	var req ksPasswordChange
	req.User.OriginalPassword = pwd.OriginalPassword
	req.User.Password = pwd.Password
	return json.Marshal(req)
}

// ReshapeUser flattens a backend single-user body into the caller-facing
// record shape.
func (s *KeystoneService) ReshapeUser(body []byte) ([]byte, error) {
	record, err := s.ParseUser(body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(record)
}

// ReshapeUserList flattens a backend user-list body into the
// caller-facing multi-user shape.
func (s *KeystoneService) ReshapeUserList(body []byte) ([]byte, error) {
	var wrapper ksUserListWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	records := make([]UserRecord, 0, len(wrapper.Users))
	for _, u := range wrapper.Users {
		records = append(records, toRecord(u))
	}
	return json.Marshal(struct {
		Users []UserRecord `json:"users"`
	}{Users: records})
}

func (s *KeystoneService) ParseUser(body []byte) (*UserRecord, error) {
	var wrapper ksUserWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	record := toRecord(wrapper.User)
	return &record, nil
}

func toRecord(u ksUser) UserRecord {
	enabled := false
	if u.Enabled != nil {
		enabled = *u.Enabled
	}
	return UserRecord{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Description: u.Description,
		Enabled:     enabled,
	}
}
