// Package config resolves server settings from the environment, optionally seeded by a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultPort     = "8000"
	defaultEnv      = "development"
	defaultDocsPath = "/api-docs"
)

// Config holds the process-level settings. Request-time values such as the
// protection-bypass secret are deliberately not captured here.
type Config struct {
	Host     string
	Port     string
	Env      string
	DocsPath string
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the given dotenv files (".env" when none are named) into the process
// environment and returns the resulting Config. Missing files are skipped and variables
// already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from lookup, applying defaults for unset values.
func FromEnv(lookup func(string) string) (Config, error) {
	cfg := Config{
		Host:     lookup("HOST"),
		Port:     valueOr(lookup("PORT"), defaultPort),
		Env:      valueOr(lookup("APP_ENV"), defaultEnv),
		DocsPath: defaultDocsPath,
	}
	n, err := strconv.Atoi(cfg.Port)
	if err != nil || n < 1 || n > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	return cfg, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
