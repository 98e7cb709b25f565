package services

import (
	"context"
	"sync"

	"github.com/doaqui/doaqui/core"
	"github.com/doaqui/doaqui/strapi"
)

// fakeAuthAPI is a test-only fake implementing SignInAPI and SignUpAPI.
// It records calls in order and exposes error fields for behavior
// injection.
type fakeAuthAPI struct {
	mu    sync.Mutex
	calls []string

	signInResult *strapi.SignInResult
	signInErr    error

	meUser *core.User
	meErr  error
	// meCredential captures the store credential at the moment Me runs,
	// to prove the identity fetch dispatches with the fresh token.
	meCredential func() string
	meSeenToken  string

	registerInput  strapi.RegisterInput
	registerResult *strapi.RegisterResult
	registerErr    error

	assignRole  core.Role
	assignToken string
	assignErr   error
}

func (f *fakeAuthAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAuthAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAuthAPI) SignIn(ctx context.Context, input strapi.SignInInput) (*strapi.SignInResult, error) {
	f.record("signIn")
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInResult, nil
}

func (f *fakeAuthAPI) Me(ctx context.Context, opts ...strapi.RequestOption) (*core.User, error) {
	f.record("me")
	if f.meCredential != nil {
		f.meSeenToken = f.meCredential()
	}
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.meUser, nil
}

func (f *fakeAuthAPI) Register(ctx context.Context, input strapi.RegisterInput) (*strapi.RegisterResult, error) {
	f.record("register")
	f.registerInput = input
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerResult, nil
}

func (f *fakeAuthAPI) AssignRole(ctx context.Context, role core.Role, token string) error {
	f.record("assignRole")
	f.assignRole = role
	f.assignToken = token
	return f.assignErr
}

// memoryRepository is an in-memory SessionRepository for flow tests.
type memoryRepository struct {
	mu     sync.Mutex
	record *core.SessionRecord
}

func (m *memoryRepository) Load(ctx context.Context) (*core.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record, nil
}

func (m *memoryRepository) Save(ctx context.Context, record *core.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = record
	return nil
}

func (m *memoryRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	return nil
}
