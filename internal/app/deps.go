package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"embedding-wrangler/internal/config"
	"embedding-wrangler/internal/embeddings"
	"embedding-wrangler/internal/logger"
	"embedding-wrangler/internal/session"
	"embedding-wrangler/internal/wrangler"
)

// Deps bundles common runtime dependencies for the UI server and CLI.
type Deps struct {
	Config     config.Config
	Log        *slog.Logger
	Embeddings embeddings.Service
	Wrangler   *wrangler.Wrangler
	Sessions   session.Store
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return config.Load(), nil
}

// Build creates the shared components for cfg.
func Build(cfg config.Config) (Deps, error) {
	deps := BuildFlows(cfg, logger.New(cfg.LogLevel))
	deps.Log.Info("using embedding service", "url", cfg.APIURL)

	sessions, err := buildSessions(cfg, deps.Log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize sessions: %w", err)
	}
	deps.Sessions = sessions
	return deps, nil
}

// BuildFlows creates the embedding client and the flows on top of it, without
// session storage. The CLI uses it directly.
func BuildFlows(cfg config.Config, log *slog.Logger) Deps {
	svc := embeddings.NewClient(cfg.APIURL)
	return Deps{
		Config:     cfg,
		Log:        log,
		Embeddings: svc,
		Wrangler:   wrangler.New(svc, log),
	}
}

func buildSessions(cfg config.Config, log *slog.Logger) (session.Store, error) {
	ttl := cfg.SessionTTLDuration()
	switch cfg.SessionProvider {
	case "", "memory":
		log.Info("using in-memory sessions", "ttl", ttl)
		return session.NewMemoryStore(ttl), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when SESSION_PROVIDER=redis")
		}
		store, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, ttl)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-memory sessions", "err", err)
			return session.NewMemoryStore(ttl), nil
		}
		log.Info("using Redis sessions", "addr", cfg.RedisAddr, "ttl", ttl)
		return store, nil
	default:
		return nil, fmt.Errorf("invalid SESSION_PROVIDER: %s (valid options: memory, redis)", cfg.SessionProvider)
	}
}
