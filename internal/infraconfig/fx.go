package infraconfig

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/cache"
	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

const connectTimeout = 10 * time.Second

// FxModule provee Store, cache.Client, *CachedSource y Source a partir de
// *config.Config. Las conexiones se cierran en OnStop.
var FxModule = fx.Module("infraconfig",
	fx.Provide(
		NewStoreFromConfig,
		NewCacheFromConfig,
		NewSourceFromConfig,
		func(s *CachedSource) Source { return s },
	),
)

// NewStoreFromConfig abre el store elegido en storage.infra_store.
func NewStoreFromConfig(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Storage.InfraStore {
	case "memory":
		log.Warn("using in-memory infra config store", logger.Component("infraconfig"))
		return NewMemoryStore(), nil
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		pool, err := Connect(ctx, cfg.Storage.DSN, cfg.Storage.MaxConns)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			pool.Close()
			return nil
		}})
		return NewPGStore(pool), nil
	default:
		return nil, fmt.Errorf("infraconfig: unknown infra store %q", cfg.Storage.InfraStore)
	}
}

// NewCacheFromConfig crea el cliente de cache de la ventana de frescura.
func NewCacheFromConfig(lc fx.Lifecycle, cfg *config.Config) (cache.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	c, err := cache.New(ctx, cache.Config{
		Kind:     cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return c.Close() }})
	return c, nil
}

// NewSourceFromConfig arma el Source con auth.infra_config_ttl.
func NewSourceFromConfig(store Store, c cache.Client, cfg *config.Config) *CachedSource {
	return NewCachedSource(store, c, cfg.Auth.InfraConfigTTL)
}
