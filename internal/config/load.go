package config

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DefaultEnvFile is loaded when present; its absence is not an error.
const DefaultEnvFile = ".env"

// LoadDotEnv loads variables from a dotenv file into the process environment.
// Variables already set in the environment win. An empty path loads DefaultEnvFile
// if it exists; an explicit path must exist.
func LoadDotEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &Error{Field: DefaultEnvFile, Err: err}
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return &Error{Field: path, Err: err}
	}
	return nil
}

// Load reads the configuration from lookuper and validates it.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, &Error{Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv reads the configuration from the process environment.
func LoadFromEnv(ctx context.Context) (*Config, error) {
	return Load(ctx, envconfig.OsLookuper())
}
