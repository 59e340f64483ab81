package auth

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/provider"
)

// RegisterTimeout acota la lectura de infra config durante el arranque.
const RegisterTimeout = 10 * time.Second

// FxModule arma el registro dentro del contenedor. Requiere *config.Config,
// Factories, infraconfig.Store y *zap.Logger en el grafo. Si Register
// falla, fx.New falla.
var FxModule = fx.Module("auth",
	fx.Provide(
		NewPolicy,
		NewModule,
	),
	fx.Invoke(ensureModule),
)

// NewPolicy construye la política acotada por los proveedores estáticos.
func NewPolicy(cfg *config.Config) provider.Policy {
	return provider.NewPolicy(cfg.StaticProviders())
}

// NewModule corre ambas fases.
func NewModule(cfg *config.Config, policy provider.Policy, factories Factories, store infraconfig.Store, log *zap.Logger) (*Module, error) {
	m := Assemble(cfg, policy, factories, log)

	ctx, cancel := context.WithTimeout(context.Background(), RegisterTimeout)
	defer cancel()
	return m.Register(ctx, store)
}

func ensureModule(*Module) {}
