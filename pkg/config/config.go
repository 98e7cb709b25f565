// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config are the process settings. Every field has a default except the
// session passphrase, which stays empty unless encryption is wanted.
type Config struct {
	APIBaseURL string `envconfig:"DOAQUI_API_BASE_URL" default:"http://localhost:1337/api"`
	ListenAddr string `envconfig:"DOAQUI_LISTEN_ADDR" default:":3000"`

	SessionFile string `envconfig:"DOAQUI_SESSION_FILE" default:".doaqui/session.json"`
	// SessionKey, when set, switches the session file to the encrypted
	// format with this passphrase.
	SessionKey string `envconfig:"DOAQUI_SESSION_KEY"`
	// SessionDSN, when set, stores the session in PostgreSQL instead of
	// a file.
	SessionDSN string `envconfig:"DOAQUI_SESSION_DSN"`

	AdminAreaOnly bool          `envconfig:"DOAQUI_ADMIN_AREA_ONLY"`
	HTTPTimeout   time.Duration `envconfig:"DOAQUI_HTTP_TIMEOUT" default:"30s"`
	CacheTTL      time.Duration `envconfig:"DOAQUI_CACHE_TTL" default:"5m"`
}

// Load reads the environment into a Config. A .env file in the working
// directory is applied first when present; a missing one is not an
// error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}
