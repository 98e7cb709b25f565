// Package pgx persists the session in PostgreSQL, keyed by an
// installation name so several deployments can share one database.
package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doaqui/doaqui/core"
)

const defaultKey = "default"

type Repository struct {
	pool *pgxpool.Pool
	key  string
}

var _ core.SessionRepository = (*Repository)(nil)

// New builds a repository over pool. key names this installation's row;
// empty means "default".
func New(pool *pgxpool.Pool, key string) *Repository {
	if key == "" {
		key = defaultKey
	}
	return &Repository{pool: pool, key: key}
}

// Migrate creates the session table when it does not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS client_sessions (
			key        text PRIMARY KEY,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating client_sessions table: %w", err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context) (*core.SessionRecord, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM client_sessions WHERE key = $1`, r.key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var record core.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decoding session row: %w", err)
	}
	return &record, nil
}

func (r *Repository) Save(ctx context.Context, record *core.SessionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO client_sessions (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		r.key, raw)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM client_sessions WHERE key = $1`, r.key)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
