// Package session keeps server-side session state keyed by a cookie id.
package session

import (
	"context"
	"log/slog"
	"time"

	"majicmall/config"
	"majicmall/internal/domain/constants"
	"majicmall/internal/domain/lifecycle"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Store persists session maps.
type Store interface {
	// Load returns the session data, or an empty map when the id is unknown or expired.
	Load(ctx context.Context, id string) (map[string]any, error)
	Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Params defines the dependencies of the session store.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewStore selects the memory or Redis backend from configuration.
func NewStore(params Params) (Store, error) {
	cfg := params.Config.Session
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.SessionProviderMemory {
		params.Logger.Info("Using in-memory session store")

		return NewMemoryStore(), nil
	}

	if cfg.Provider != constants.SessionProviderRedis {
		return nil, errors.Errorf("unknown session provider: %s", cfg.Provider)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping redis")
			}
			params.Logger.Info("Redis session store connected", slog.String("addr", cfg.Redis.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewRedisStore(client), nil
}
