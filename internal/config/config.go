package config

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// Config holds all configuration for the application
type Config struct {
	Redis   RedisConfig
	SQLite  SQLiteConfig
	Catalog CatalogConfig
}

// RedisConfig holds draft store configuration. Drafts are kept in memory
// when URL is empty.
type RedisConfig struct {
	URL      string        `env:"REDIS_URL"`
	DraftTTL time.Duration `env:"DRAFT_TTL" envDefault:"24h"`
}

// SQLiteConfig holds advance history configuration. History lives only on
// the draft when Path is empty.
type SQLiteConfig struct {
	Path string `env:"HISTORY_DB_PATH"`
}

// CatalogConfig holds rulebook configuration
type CatalogConfig struct {
	Path          string `env:"CATALOG_PATH" envDefault:"data/rulebook.yaml"`
	LenientDecode bool   `env:"CATALOG_LENIENT_DECODE" envDefault:"false"`
}

// Load reads an optional .env file and then the environment. Variables
// already set win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, dnderr.Wrapf(err, "failed to read %s", file)
			}
			continue
		}
		log.Printf("Config: loaded %s", file)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "invalid configuration")
	}

	if cfg.Catalog.Path == "" {
		return nil, dnderr.InvalidArgument("CATALOG_PATH is required")
	}
	if cfg.Redis.DraftTTL <= 0 {
		return nil, dnderr.InvalidArgumentf("DRAFT_TTL must be positive, got %s", cfg.Redis.DraftTTL)
	}
	return cfg, nil
}
