package core

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeSessionRepository is a test-only fake implementing SessionRepository.
// It keeps the last saved record and exposes error fields for behavior
// injection.
type fakeSessionRepository struct {
	mu      sync.Mutex
	record  *SessionRecord
	saves   int
	clears  int
	loadErr error
	saveErr error
}

func (f *fakeSessionRepository) Load(ctx context.Context) (*SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.record, nil
}

func (f *fakeSessionRepository) Save(ctx context.Context, record *SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.record = record
	f.saves++
	return nil
}

func (f *fakeSessionRepository) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record = nil
	f.clears++
	return nil
}

func (f *fakeSessionRepository) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func testUser(role Role) *User {
	return &User{
		ID:       "42",
		Email:    "a@b.com",
		Username: "abc",
		Document: "123.456.789-09",
		Role:     role,
	}
}

// Requirement: login then logout returns the store to the initial empty state.
func TestSessionStore_LoginLogoutRoundTrip(t *testing.T) {
	repo := &fakeSessionRepository{}
	store := NewSessionStore(repo, nil)

	store.Login(testUser(RoleDonor), "token-1")
	if !store.IsAuthenticated() {
		t.Fatal("expected authenticated after login")
	}

	store.Logout()

	got := store.Snapshot()
	if got.User != nil || got.Credential != "" || got.IsAuthenticated {
		t.Errorf("Snapshot() after logout = %+v, want empty session", got)
	}
	if repo.record == nil || repo.record.IsAuthenticated {
		t.Error("persisted record should be the cleared session")
	}
}

// Requirement: logout on an already-empty session has no observable effect.
func TestSessionStore_LogoutIdempotent(t *testing.T) {
	repo := &fakeSessionRepository{}
	store := NewSessionStore(repo, nil)

	store.Logout()
	store.Logout()

	if repo.saveCount() != 0 {
		t.Errorf("empty logout persisted %d times, want 0", repo.saveCount())
	}
}

// Requirement: login replaces state atomically and persists user,
// credential, and authentication flag.
func TestSessionStore_LoginReplacesState(t *testing.T) {
	repo := &fakeSessionRepository{}
	store := NewSessionStore(repo, nil)

	store.Login(testUser(RoleONG), "token-a")
	store.Login(testUser(RoleAdmin), "token-b")

	got := store.Snapshot()
	if got.User.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", got.User.Role, RoleAdmin)
	}
	if got.Credential != "token-b" {
		t.Errorf("Credential = %q, want %q", got.Credential, "token-b")
	}
	if repo.record == nil || repo.record.Credential != "token-b" || !repo.record.IsAuthenticated {
		t.Errorf("persisted record = %+v, want latest login", repo.record)
	}
}

// Requirement: UpdateUser while user is absent leaves the store unchanged.
func TestSessionStore_UpdateUserWithoutUser(t *testing.T) {
	repo := &fakeSessionRepository{}
	store := NewSessionStore(repo, nil)

	email := "new@b.com"
	store.UpdateUser(UserUpdate{Email: &email})

	got := store.Snapshot()
	if got.User != nil {
		t.Errorf("Snapshot().User = %+v, want nil", got.User)
	}
	if repo.saveCount() != 0 {
		t.Errorf("no-op update persisted %d times, want 0", repo.saveCount())
	}
}

// Requirement: UpdateUser shallow-merges fields, leaving credential and
// authentication flag untouched.
func TestSessionStore_UpdateUserMerges(t *testing.T) {
	tests := []struct {
		name   string
		update UserUpdate
		check  func(t *testing.T, u *User)
	}{
		{
			name:   "email only",
			update: UserUpdate{Email: ptr("new@b.com")},
			check: func(t *testing.T, u *User) {
				if u.Email != "new@b.com" {
					t.Errorf("Email = %q", u.Email)
				}
				if u.Username != "abc" {
					t.Errorf("Username changed to %q", u.Username)
				}
			},
		},
		{
			name:   "role only",
			update: UserUpdate{Role: rolePtr(RoleONG)},
			check: func(t *testing.T, u *User) {
				if u.Role != RoleONG {
					t.Errorf("Role = %q", u.Role)
				}
			},
		},
		{
			name:   "address and document",
			update: UserUpdate{Address: ptr("Rua A, 1"), Document: ptr("987")},
			check: func(t *testing.T, u *User) {
				if u.Address != "Rua A, 1" || u.Document != "987" {
					t.Errorf("Address/Document = %q/%q", u.Address, u.Document)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := &fakeSessionRepository{}
			store := NewSessionStore(repo, nil)
			store.Login(testUser(RoleDonor), "token-1")

			store.UpdateUser(test.update)

			got := store.Snapshot()
			test.check(t, got.User)
			if got.Credential != "token-1" || !got.IsAuthenticated {
				t.Error("UpdateUser altered credential or authentication flag")
			}
		})
	}
}

// Requirement: UpdateToken replaces the credential only.
func TestSessionStore_UpdateToken(t *testing.T) {
	repo := &fakeSessionRepository{}
	store := NewSessionStore(repo, nil)
	store.Login(testUser(RoleDonor), "old")

	store.UpdateToken("fresh")

	got := store.Snapshot()
	if got.Credential != "fresh" {
		t.Errorf("Credential = %q, want %q", got.Credential, "fresh")
	}
	if got.User == nil || !got.IsAuthenticated {
		t.Error("UpdateToken must not touch user or authentication flag")
	}
}

// Requirement: hydration restores a valid persisted session and falls
// back to the empty session for anything malformed.
func TestSessionStore_Hydrate(t *testing.T) {
	tests := []struct {
		name     string
		repo     *fakeSessionRepository
		wantAuth bool
	}{
		{
			name: "valid persisted session",
			repo: &fakeSessionRepository{record: &SessionRecord{
				User:            testUser(RoleAdmin),
				Credential:      "token-1",
				IsAuthenticated: true,
			}},
			wantAuth: true,
		},
		{
			name:     "no persisted session",
			repo:     &fakeSessionRepository{},
			wantAuth: false,
		},
		{
			name:     "repository read error",
			repo:     &fakeSessionRepository{loadErr: errors.New("corrupt file")},
			wantAuth: false,
		},
		{
			name: "authenticated without credential",
			repo: &fakeSessionRepository{record: &SessionRecord{
				User:            testUser(RoleDonor),
				IsAuthenticated: true,
			}},
			wantAuth: false,
		},
		{
			name: "authenticated without user",
			repo: &fakeSessionRepository{record: &SessionRecord{
				Credential:      "token-1",
				IsAuthenticated: true,
			}},
			wantAuth: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := NewSessionStore(test.repo, nil)

			store.Hydrate(context.Background())

			if store.IsAuthenticated() != test.wantAuth {
				t.Errorf("IsAuthenticated() = %v, want %v", store.IsAuthenticated(), test.wantAuth)
			}
			if !test.wantAuth {
				if got := store.Snapshot(); got.User != nil || got.Credential != "" {
					t.Errorf("fallback session not empty: %+v", got)
				}
			}
		})
	}
}

// Requirement: persistence failures never surface to callers; in-memory
// state stays authoritative.
func TestSessionStore_PersistFailureIsSilent(t *testing.T) {
	repo := &fakeSessionRepository{saveErr: errors.New("disk full")}
	store := NewSessionStore(repo, nil)

	store.Login(testUser(RoleDonor), "token-1")

	if !store.IsAuthenticated() {
		t.Error("in-memory login must survive a persist failure")
	}
}

// Requirement: role derivations always reflect the latest store value.
func TestSessionStore_RoleInfo(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want RoleInfo
	}{
		{name: "donor", role: RoleDonor, want: RoleInfo{Role: RoleDonor, IsDonor: true}},
		{name: "ong", role: RoleONG, want: RoleInfo{Role: RoleONG, IsONG: true}},
		{name: "admin", role: RoleAdmin, want: RoleInfo{Role: RoleAdmin, IsAdmin: true}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := NewSessionStore(&fakeSessionRepository{}, nil)
			store.Login(testUser(test.role), "token-1")

			if got := store.RoleInfo(); got != test.want {
				t.Errorf("RoleInfo() = %+v, want %+v", got, test.want)
			}
			if !store.HasRole(test.role) {
				t.Errorf("HasRole(%q) = false", test.role)
			}
		})
	}

	t.Run("logged out", func(t *testing.T) {
		store := NewSessionStore(&fakeSessionRepository{}, nil)
		if got := store.RoleInfo(); got != (RoleInfo{}) {
			t.Errorf("RoleInfo() = %+v, want zero", got)
		}
		if _, ok := store.Role(); ok {
			t.Error("Role() reported a role on an empty session")
		}
	})
}

// Requirement: Snapshot returns a copy; mutating it must not leak back
// into the store.
func TestSessionStore_SnapshotIsCopy(t *testing.T) {
	store := NewSessionStore(&fakeSessionRepository{}, nil)
	store.Login(testUser(RoleDonor), "token-1")

	snap := store.Snapshot()
	snap.User.Email = "mutated@b.com"

	if store.Snapshot().User.Email != "a@b.com" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func ptr(s string) *string { return &s }
func rolePtr(r Role) *Role { return &r }
