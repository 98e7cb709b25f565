package core

import "context"

// Ports define interfaces for external dependencies

// ============================================
// PERSISTENCE PORT
// ============================================

// SessionRepository is the durable backing for the session store.
// Load returns (nil, nil) when no session has ever been saved.
// Implementations are last-writer-wins; the store never reads back
// after a save.
type SessionRepository interface {
	Load(ctx context.Context) (*SessionRecord, error)
	Save(ctx context.Context, record *SessionRecord) error
	Clear(ctx context.Context) error
}

// ============================================
// CREDENTIAL PORT
// ============================================

// CredentialSource hands out the current bearer credential at request
// dispatch time. An empty string means "send no Authorization header".
type CredentialSource interface {
	Credential() string
}
