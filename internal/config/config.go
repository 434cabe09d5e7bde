// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2/log"
)

const anyOrigin = "*"

// Config holds server settings. DBPath enables SQLite snapshots; when empty
// games live in memory only.
type Config struct {
	Addr           string   `env:"CHECKERS_ADDR" envDefault:":3000"`
	AllowedOrigins []string `env:"CHECKERS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	DBPath         string   `env:"CHECKERS_DB_PATH"`
	LogLevel       string   `env:"CHECKERS_LOG_LEVEL" envDefault:"info"`

	level log.Level
}

// Load parses Config from environment variables. An origin list containing
// "*" collapses to just "*".
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return Config{}, err
	}
	cfg.level = level
	for _, origin := range cfg.AllowedOrigins {
		if strings.TrimSpace(origin) == anyOrigin {
			cfg.AllowedOrigins = []string{anyOrigin}
			break
		}
	}
	return cfg, nil
}

// Level is LogLevel as parsed by Load.
func (c Config) Level() log.Level {
	return c.level
}

// Origins joins AllowedOrigins the way the CORS middleware expects them.
func (c Config) Origins() string {
	return strings.Join(c.AllowedOrigins, ", ")
}

// AllowCredentials is false for a wildcard origin, which browsers refuse to
// combine with credentials.
func (c Config) AllowCredentials() bool {
	return !(len(c.AllowedOrigins) == 1 && c.AllowedOrigins[0] == anyOrigin)
}

func ParseLogLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	default:
		return log.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
