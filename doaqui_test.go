package doaqui

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type MockSessionRepository struct {
	mu     sync.Mutex
	record *SessionRecord
}

func (m *MockSessionRepository) Load(ctx context.Context) (*SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record, nil
}

func (m *MockSessionRepository) Save(ctx context.Context, record *SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = record
	return nil
}

func (m *MockSessionRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	return nil
}

// dummy HTTP Adapter
type dummyHTTP struct {
	registered *App
	err        error
}

func (d *dummyHTTP) RegisterRoutes(app *App) error {
	d.registered = app
	return d.err
}

func TestNewShouldValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "missing base URL",
			config:  Config{SessionRepository: &MockSessionRepository{}, HTTP: &dummyHTTP{}},
			wantErr: ErrBaseURLRequired,
		},
		{
			name:    "missing session repository",
			config:  Config{BaseURL: "http://localhost:1337/api", HTTP: &dummyHTTP{}},
			wantErr: ErrRepositoryRequired,
		},
		{
			name:    "missing HTTP adapter",
			config:  Config{BaseURL: "http://localhost:1337/api", SessionRepository: &MockSessionRepository{}},
			wantErr: ErrHTTPAdapterRequired,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(context.Background(), test.config)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestNewShouldWireAndRegisterRoutes(t *testing.T) {
	adapter := &dummyHTTP{}

	app, err := New(context.Background(), Config{
		BaseURL:           "http://localhost:1337/api",
		SessionRepository: &MockSessionRepository{},
		HTTP:              adapter,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if adapter.registered != app {
		t.Error("RegisterRoutes did not receive the assembled app")
	}
	if app.Store == nil || app.Client == nil || app.Auth == nil ||
		app.Donations == nil || app.Organizations == nil || app.FoodTypes == nil ||
		app.Guard == nil || app.SignIn == nil || app.SignUp == nil {
		t.Error("New left a component unwired")
	}
}

func TestNewShouldHydratePersistedSession(t *testing.T) {
	repo := &MockSessionRepository{
		record: &SessionRecord{
			User:            &User{ID: "1", Email: "a@b.com", Username: "abc", Role: RoleDonor},
			Credential:      "persisted-jwt",
			IsAuthenticated: true,
		},
	}

	app, err := New(context.Background(), Config{
		BaseURL:           "http://localhost:1337/api",
		SessionRepository: repo,
		HTTP:              &dummyHTTP{},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !app.Store.IsAuthenticated() || app.Store.Credential() != "persisted-jwt" {
		t.Error("persisted session not hydrated at assembly")
	}
	if decision := app.Guard.Evaluate("/dashboard/donor"); decision.State != GuardAllowed {
		t.Errorf("guard state = %v, want allowed for the hydrated donor", decision.State)
	}
}

func TestNewShouldPropagateAdapterError(t *testing.T) {
	wantErr := errors.New("route conflict")

	_, err := New(context.Background(), Config{
		BaseURL:           "http://localhost:1337/api",
		SessionRepository: &MockSessionRepository{},
		HTTP:              &dummyHTTP{err: wantErr},
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("New() error = %v, want the adapter's error", err)
	}
}
