// Package sessionfile persists the session as a single file on disk,
// plain JSON or encrypted. The file plays the role browser storage
// plays for a web client: it survives restarts and a missing file just
// means nobody is signed in.
package sessionfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doaqui/doaqui/core"
)

// Repository stores the session record as plain JSON.
type Repository struct {
	path string
}

var _ core.SessionRepository = (*Repository)(nil)

func New(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) Load(ctx context.Context) (*core.SessionRecord, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var record core.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", err)
	}
	return &record, nil
}

func (r *Repository) Save(ctx context.Context, record *core.SessionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}
	return writeAtomic(r.path, raw)
}

func (r *Repository) Clear(ctx context.Context) error {
	err := os.Remove(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// writeAtomic writes through a temp file and renames it into place, so
// a crash mid-write never leaves a truncated session behind. The file
// holds a credential, hence the restrictive modes.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting session file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp session file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}
