package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mxc-foundation/lpwan-console/config"
)

// logSettings is read before the rest of the configuration so startup
// failures are logged in the requested format.
type logSettings struct {
	Level  slog.Level `env:"LOG_LEVEL"  envDefault:"info"`
	Format string     `env:"LOG_FORMAT" envDefault:"json"`
}

// InitLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
// ("json" or "text") and installs it as the slog default.
func InitLogger() *slog.Logger {
	logger := newLogger(os.Stdout, os.Environ)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, environ func() []string) *slog.Logger {
	var s logSettings
	vars := make(map[string]string)
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	err := env.ParseWithOptions(&s, env.Options{Environment: vars})

	opts := &slog.HandlerOptions{Level: s.Level}
	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(strings.TrimSpace(s.Format), "text") {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h)
	if err != nil {
		logger.Warn("invalid log settings, using defaults", "error", err)
	}
	return logger
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (config.AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}
