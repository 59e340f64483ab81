// Package guards contiene los controles previos a delegar en una estrategia.
package guards

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/authwire/internal/audit"
	httperrors "github.com/dropDatabas3/authwire/internal/http/errors"
	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/metrics"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

const (
	outcomeForwarded   = "forwarded"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
)

// ProviderGate decide en cada request si un proveedor SSO puede iniciar el
// handshake. La allow-list se relee en cada llamada a través de Source; el
// gate no guarda estado entre requests.
type ProviderGate struct {
	policy provider.Policy
	source infraconfig.Source
}

// NewProviderGate crea el gate.
func NewProviderGate(policy provider.Policy, source infraconfig.Source) *ProviderGate {
	return &ProviderGate{policy: policy, source: source}
}

// Check devuelve nil si id está permitido ahora mismo. Si no,
// ErrAuthProviderNotSpecified (404). Si la infra config no se pudo leer,
// ErrServiceUnavailable (503): el gate nunca deja pasar sin decidir.
func (g *ProviderGate) Check(ctx context.Context, id provider.ID) error {
	log := logger.From(ctx).With(logger.Layer("guard"), logger.Provider(id.String()))

	allowList, err := g.source.AllowList(ctx)
	if err != nil {
		metrics.ObserveGateDecision(id.String(), outcomeUnavailable)
		log.Error("infra config unavailable", logger.Err(err))
		return httperrors.ErrServiceUnavailable.WithCause(err)
	}
	if !g.policy.Allowed(id, allowList) {
		metrics.ObserveGateDecision(id.String(), outcomeRejected)
		audit.Log(ctx, audit.EventSSORejected, logger.Provider(id.String()), logger.Outcome(outcomeRejected))
		return httperrors.ErrAuthProviderNotSpecified
	}
	return nil
}

// Activate corre el gate completo: Check y, si pasa, delega en s con las
// opciones construidas desde el request. s == nil (proveedor no registrado)
// se trata como no habilitado. Los errores de la estrategia se escriben tal
// cual los devuelve.
func (g *ProviderGate) Activate(w http.ResponseWriter, r *http.Request, id provider.ID, s strategy.Strategy) {
	if err := g.Check(r.Context(), id); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if s == nil {
		metrics.ObserveGateDecision(id.String(), outcomeRejected)
		httperrors.WriteError(w, httperrors.ErrAuthProviderNotSpecified)
		return
	}

	metrics.ObserveGateDecision(id.String(), outcomeForwarded)
	if err := s.Activate(w, r, OptionsFromRequest(r)); err != nil {
		logger.From(r.Context()).Error("strategy activation failed",
			logger.Layer("guard"),
			logger.Provider(id.String()),
			logger.Err(err),
		)
		httperrors.WriteError(w, err)
	}
}

// Handler devuelve un http.Handler que aplica el gate a un proveedor fijo.
func (g *ProviderGate) Handler(id provider.ID, s strategy.Strategy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.Activate(w, r, id, s)
	})
}

// OptionsFromRequest arma las opciones para la estrategia. redirect_uri se
// toma del query string tal cual; si no vino, queda nil.
func OptionsFromRequest(r *http.Request) strategy.AuthenticateOptions {
	var opts strategy.AuthenticateOptions
	if vals, ok := r.URL.Query()["redirect_uri"]; ok && len(vals) > 0 {
		v := vals[0]
		opts.State.RedirectURI = &v
	}
	return opts
}
