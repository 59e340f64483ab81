// Package auth arma el registro de proveedores de autenticación.
//
// El armado tiene dos fases: Assemble corre al construir el proceso y sólo
// mira la configuración estática; Register consulta la infra config y, si
// ya está poblada, recorta los proveedores sociales a la allow-list.
package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/infraconfig"
	jwtx "github.com/dropDatabas3/authwire/internal/jwt"
	"github.com/dropDatabas3/authwire/internal/metrics"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
	"github.com/dropDatabas3/authwire/internal/strategy/github"
	"github.com/dropDatabas3/authwire/internal/strategy/google"
	"github.com/dropDatabas3/authwire/internal/strategy/microsoft"
	"github.com/dropDatabas3/authwire/internal/strategy/oidc"
)

// ErrRegister se devuelve cuando la fase diferida no pudo leer la infra config.
var ErrRegister = errors.New("auth: provider registration failed")

// Factories mapea cada proveedor delegado a su constructor.
type Factories map[provider.ID]strategy.Factory

// DefaultFactories son los constructores reales de cada proveedor.
func DefaultFactories() Factories {
	return Factories{
		provider.Google:    google.Factory,
		provider.GitHub:    github.Factory,
		provider.Microsoft: microsoft.Factory,
		provider.OIDC:      oidc.Factory,
	}
}

// Module es el descriptor resultante: las estrategias registradas y los
// verificadores del camino LOCAL. Es inmutable; Register devuelve otro.
type Module struct {
	policy     provider.Policy
	strategies map[provider.ID]strategy.Strategy
	access     *jwtx.Verifier
	refresh    *jwtx.Verifier
	log        *zap.Logger
}

// Assemble es la fase inmediata. Nunca falla: un proveedor cuya fábrica
// devuelve error queda fuera y se loguea.
func Assemble(cfg *config.Config, policy provider.Policy, factories Factories, log *zap.Logger) *Module {
	if log == nil {
		log = logger.L()
	}
	log = log.With(logger.Component("auth.registry"))

	m := &Module{
		policy:     policy,
		strategies: make(map[provider.ID]strategy.Strategy),
		access:     jwtx.NewAccessVerifier(cfg.Auth.JWT.AccessSecret),
		refresh:    jwtx.NewRefreshVerifier(cfg.Auth.JWT.RefreshSecret),
		log:        log,
	}
	codec := strategy.NewStateCodec(cfg.Auth.JWT.StateSecret, cfg.Auth.JWT.StateTTL)

	// OIDC se instancia si está habilitado estáticamente; el gate lo filtra en vivo.
	candidates := append(provider.Social(), provider.OIDC)
	for _, id := range candidates {
		if !policy.Allowed(id, nil) {
			continue
		}
		f, ok := factories[id]
		if !ok {
			log.Warn("no factory for provider", logger.Provider(id.String()))
			continue
		}
		s, err := f(cfg.Credentials(id), codec)
		if err != nil {
			log.Warn("provider unavailable", logger.Provider(id.String()), logger.Err(err))
			continue
		}
		m.strategies[id] = s
	}

	m.publish()
	log.Info("providers assembled",
		logger.Op("assemble"),
		logger.Providers(m.providersCSV()),
	)
	return m
}

// Register es la fase diferida. Con la tabla sin poblar devuelve el mismo
// módulo; poblada, devuelve uno nuevo con los sociales filtrados por la
// allow-list. Cualquier error del store se propaga envuelto en ErrRegister.
func (m *Module) Register(ctx context.Context, store infraconfig.Store) (*Module, error) {
	ok, err := store.IsPopulated(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegister, err)
	}
	if !ok {
		m.log.Info("infra config not populated, keeping static providers", logger.Op("register"))
		return m, nil
	}

	ic, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegister, err)
	}
	allow := ic.AllowedAuthProviders

	next := &Module{
		policy:     m.policy,
		strategies: make(map[provider.ID]strategy.Strategy, len(m.strategies)),
		access:     m.access,
		refresh:    m.refresh,
		log:        m.log,
	}
	for id, s := range m.strategies {
		if id == provider.OIDC || m.policy.Allowed(id, &allow) {
			next.strategies[id] = s
		}
	}

	next.publish()
	next.log.Info("providers registered",
		logger.Op("register"),
		logger.Providers(next.providersCSV()),
		logger.String("allow_list", allow.String()),
	)
	return next, nil
}

// Providers es el conjunto activo en orden de declaración. LOCAL siempre está.
func (m *Module) Providers() []provider.ID {
	out := []provider.ID{provider.Local}
	for _, id := range provider.All() {
		if _, ok := m.strategies[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Strategy devuelve la estrategia registrada para id.
func (m *Module) Strategy(id provider.ID) (strategy.Strategy, bool) {
	s, ok := m.strategies[id]
	return s, ok
}

func (m *Module) Policy() provider.Policy { return m.policy }

func (m *Module) Access() *jwtx.Verifier { return m.access }

func (m *Module) Refresh() *jwtx.Verifier { return m.refresh }

func (m *Module) providersCSV() string {
	return provider.NewSet(m.Providers()...).String()
}

func (m *Module) publish() {
	all := provider.All()
	allNames := make([]string, len(all))
	for i, id := range all {
		allNames[i] = id.String()
	}
	active := m.Providers()
	activeNames := make([]string, len(active))
	for i, id := range active {
		activeNames[i] = id.String()
	}
	metrics.SetActiveProviders(allNames, activeNames)
}
