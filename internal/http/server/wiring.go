// Package server arma el handler HTTP y el ciclo de vida del servidor.
package server

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dropDatabas3/authwire/internal/auth"
	"github.com/dropDatabas3/authwire/internal/cache"
	"github.com/dropDatabas3/authwire/internal/config"
	authctrl "github.com/dropDatabas3/authwire/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/authwire/internal/http/controllers/health"
	"github.com/dropDatabas3/authwire/internal/http/guards"
	"github.com/dropDatabas3/authwire/internal/http/middlewares"
	"github.com/dropDatabas3/authwire/internal/http/router"
	authsvc "github.com/dropDatabas3/authwire/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/authwire/internal/http/services/health"
	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/metrics"
	"github.com/dropDatabas3/authwire/internal/rate"
)

// FxModule provee el handler y registra el servidor en el lifecycle.
// Requiere *auth.Module, infraconfig.Source, cache.Client y *config.Config.
var FxModule = fx.Module("http.server",
	fx.Provide(
		NewGate,
		NewControllers,
		NewHealthController,
		NewRateLimiter,
		NewHandler,
		New,
	),
	fx.Invoke(Run),
)

// NewGate arma el gate con la política del registro.
func NewGate(m *auth.Module, source infraconfig.Source) *guards.ProviderGate {
	return guards.NewProviderGate(m.Policy(), source)
}

// NewControllers arma los controllers de /v1/auth.
func NewControllers(m *auth.Module, gate *guards.ProviderGate, source infraconfig.Source, cfg *config.Config) *authctrl.Controllers {
	return authctrl.NewControllers(authctrl.Deps{
		Registry:  m,
		Gate:      gate,
		Providers: authsvc.NewProvidersService(m, source),
		Issuer:    authsvc.NewRedirectIssuer(cfg.Auth.DefaultRedirectURL, cfg.Auth.AllowedRedirectOrigins),
	})
}

// NewHealthController chequea cache e infra config.
func NewHealthController(c cache.Client, source infraconfig.Source) *healthctrl.HealthController {
	return healthctrl.NewHealthController(healthsvc.NewHealthService(map[string]healthsvc.Check{
		"cache": c.Ping,
		"infra_config": func(ctx context.Context) error {
			_, err := source.AllowList(ctx)
			return err
		},
	}))
}

// NewRateLimiter usa el mismo cache.Client que la infra config.
func NewRateLimiter(c cache.Client, cfg *config.Config) rate.Limiter {
	if cfg.Auth.RateLimit.Max < 0 {
		return nil
	}
	return rate.NewFixedWindow(c, "rl:sso:", cfg.Auth.RateLimit.Max, cfg.Auth.RateLimit.Window)
}

// NewHandler registra métricas y arma el router.
func NewHandler(a *authctrl.Controllers, h *healthctrl.HealthController, limiter rate.Limiter, cfg *config.Config) (Handler, error) {
	proxies, err := middlewares.NewProxyTrust(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("server.trusted_proxies: %w", err)
	}
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, err
	}
	return router.New(router.Deps{
		Auth:        a,
		Health:      h,
		Metrics:     metrics.Handler(prometheus.DefaultGatherer),
		RateLimiter: limiter,
		Proxies:     proxies,
	}), nil
}
