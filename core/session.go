package core

import (
	"context"
	"log/slog"
	"sync"
)

// SessionStore is the single source of truth for "who is logged in".
// Every mutation goes through its methods and is written through to the
// repository; no other component touches persisted storage directly.
//
// Persistence failures never surface to callers: the in-memory state
// stays authoritative and the failure is logged.
type SessionStore struct {
	mu      sync.RWMutex
	repo    SessionRepository
	logger  *slog.Logger
	session Session
	loading bool
}

func NewSessionStore(repo SessionRepository, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{repo: repo, logger: logger}
}

// Hydrate loads the persisted session before any role-gated content is
// served. Malformed or unreadable data is treated as "no session";
// Hydrate never fails.
func (s *SessionStore) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("session hydrate failed, starting unauthenticated", "error", err)
		s.session = Session{}
		return
	}
	if record == nil {
		s.session = Session{}
		return
	}

	// Enforce the invariant on untrusted stored data: an authenticated
	// record must carry both identity and credential.
	if record.IsAuthenticated && (record.User == nil || record.Credential == "") {
		s.logger.Warn("persisted session violates invariant, discarding")
		s.session = Session{}
		return
	}

	s.session = Session{
		User:            cloneUser(record.User),
		Credential:      record.Credential,
		IsAuthenticated: record.IsAuthenticated,
	}
}

// Login unconditionally replaces the session with the given identity and
// credential. The caller must already have verified the credential
// against the backend.
func (s *SessionStore) Login(user *User, credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{
		User:            cloneUser(user),
		Credential:      credential,
		IsAuthenticated: true,
	}
	s.loading = false
	s.persist()
}

// Logout clears the session. Calling it on an already-empty session is
// a no-op with no observable effect.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.User == nil && s.session.Credential == "" && !s.session.IsAuthenticated {
		return
	}
	s.session = Session{}
	s.loading = false
	s.persist()
}

// UpdateUser shallow-merges the given fields into the current user.
// No-op when no user is present. Credential and authentication flag are
// untouched.
func (s *SessionStore) UpdateUser(update UserUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.User == nil {
		return
	}
	if update.Email != nil {
		s.session.User.Email = *update.Email
	}
	if update.Username != nil {
		s.session.User.Username = *update.Username
	}
	if update.Document != nil {
		s.session.User.Document = *update.Document
	}
	if update.Address != nil {
		s.session.User.Address = *update.Address
	}
	if update.Role != nil {
		s.session.User.Role = *update.Role
	}
	s.persist()
}

// UpdateToken replaces the credential only. Used to hold a freshly
// obtained token while the identity fetch is still in flight, and by
// token refresh.
func (s *SessionStore) UpdateToken(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Credential = credential
	s.persist()
}

// SetLoading flags a transient async operation; the guard renders a
// placeholder instead of redirecting while this is set.
func (s *SessionStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns a copy of the current session. The credential is
// included; callers exposing the snapshot must strip it.
func (s *SessionStore) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Session{
		User:            cloneUser(s.session.User),
		Credential:      s.session.Credential,
		IsAuthenticated: s.session.IsAuthenticated,
	}
}

// Credential implements CredentialSource. The gateway client reads it at
// dispatch time so it always sees the latest value.
func (s *SessionStore) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Credential
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated
}

// Role returns the current role and whether one is present.
func (s *SessionStore) Role() (Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session.User == nil || !s.session.User.Role.Valid() {
		return "", false
	}
	return s.session.User.Role, true
}

// HasRole is an equality check against the current role.
func (s *SessionStore) HasRole(role Role) bool {
	current, ok := s.Role()
	return ok && current == role
}

// RoleInfo derives the per-role booleans view code branches on. It is
// computed synchronously from the store on every call.
func (s *SessionStore) RoleInfo() RoleInfo {
	role, _ := s.Role()
	return RoleInfo{
		Role:    role,
		IsAdmin: role == RoleAdmin,
		IsDonor: role == RoleDonor,
		IsONG:   role == RoleONG,
	}
}

// persist writes the durable subset of the session. Caller holds mu.
func (s *SessionStore) persist() {
	record := &SessionRecord{
		User:            cloneUser(s.session.User),
		Credential:      s.session.Credential,
		IsAuthenticated: s.session.IsAuthenticated,
	}
	if err := s.repo.Save(context.Background(), record); err != nil {
		s.logger.Warn("session persist failed", "error", err)
	}
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}
