package sessionfile

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/doaqui/doaqui/core"
)

// File layout: magic | salt | nonce | ciphertext. A fresh salt and
// nonce are drawn on every save, so the key never sees nonce reuse.
const (
	fileMagic  = "DOAQ1"
	saltLength = 16
)

// Argon2id cost parameters for deriving the file key from the
// passphrase.
//
// @ref https://cheatsheetseries.owasp.org/cheatsheets/Password_Storage_Cheat_Sheet.html
const (
	argonMemory      uint32 = 64 * 1024 // 64 MB
	argonIterations  uint32 = 3
	argonParallelism uint8  = 2
	keyLength        uint32 = chacha20poly1305.KeySize
)

var (
	ErrMalformedSessionFile = errors.New("malformed session file")
	ErrWrongPassphrase      = errors.New("session file cannot be decrypted")
)

// EncryptedRepository stores the session record encrypted with
// XChaCha20-Poly1305 under a passphrase-derived key.
type EncryptedRepository struct {
	path       string
	passphrase []byte
}

var _ core.SessionRepository = (*EncryptedRepository)(nil)

func NewEncrypted(path, passphrase string) *EncryptedRepository {
	return &EncryptedRepository{path: path, passphrase: []byte(passphrase)}
}

func (r *EncryptedRepository) Load(ctx context.Context) (*core.SessionRecord, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	plaintext, err := r.open(raw)
	if err != nil {
		return nil, err
	}

	var record core.SessionRecord
	if err := json.Unmarshal(plaintext, &record); err != nil {
		return nil, fmt.Errorf("decoding session record: %w", err)
	}
	return &record, nil
}

func (r *EncryptedRepository) Save(ctx context.Context, record *core.SessionRecord) error {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}

	sealed, err := r.seal(plaintext)
	if err != nil {
		return err
	}
	return writeAtomic(r.path, sealed)
}

func (r *EncryptedRepository) Clear(ctx context.Context) error {
	err := os.Remove(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (r *EncryptedRepository) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	aead, err := chacha20poly1305.NewX(r.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	out := make([]byte, 0, len(fileMagic)+len(salt)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, fileMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

func (r *EncryptedRepository) open(raw []byte) ([]byte, error) {
	header := len(fileMagic) + saltLength + chacha20poly1305.NonceSizeX
	if len(raw) < header || string(raw[:len(fileMagic)]) != fileMagic {
		return nil, ErrMalformedSessionFile
	}

	salt := raw[len(fileMagic) : len(fileMagic)+saltLength]
	nonce := raw[len(fileMagic)+saltLength : header]
	ciphertext := raw[header:]

	aead, err := chacha20poly1305.NewX(r.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

func (r *EncryptedRepository) deriveKey(salt []byte) []byte {
	return argon2.IDKey(r.passphrase, salt, argonIterations, argonMemory, argonParallelism, keyLength)
}
