package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/authwire/internal/audit"
	httperrors "github.com/dropDatabas3/authwire/internal/http/errors"
	"github.com/dropDatabas3/authwire/internal/http/guards"
	svc "github.com/dropDatabas3/authwire/internal/http/services/auth"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

// SSOController maneja el inicio y el callback de los proveedores delegados.
type SSOController struct {
	reg    Registry
	gate   *guards.ProviderGate
	issuer svc.SessionIssuer
}

// NewSSOController crea el controller. issuer nil usa RedirectIssuer sin default.
func NewSSOController(reg Registry, gate *guards.ProviderGate, issuer svc.SessionIssuer) *SSOController {
	if issuer == nil {
		issuer = svc.RedirectIssuer{}
	}
	return &SSOController{reg: reg, gate: gate, issuer: issuer}
}

// providerFromPath resuelve {provider}. LOCAL y nombres desconocidos no
// tienen handshake delegado y se reportan igual que un proveedor apagado.
func providerFromPath(r *http.Request) (provider.ID, bool) {
	id, err := provider.Parse(chi.URLParam(r, "provider"))
	if err != nil || id == provider.Local {
		return "", false
	}
	return id, true
}

func (c *SSOController) strategyFor(id provider.ID) strategy.Strategy {
	s, ok := c.reg.Strategy(id)
	if !ok {
		return nil
	}
	return s
}

// Start maneja GET /v1/auth/{provider}: gate y redirect al proveedor.
func (c *SSOController) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := providerFromPath(r)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrAuthProviderNotSpecified)
		return
	}
	c.gate.Activate(w, r, id, c.strategyFor(id))
}

// Callback maneja GET /v1/auth/{provider}/callback.
func (c *SSOController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SSOController.Callback"))

	id, ok := providerFromPath(r)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrAuthProviderNotSpecified)
		return
	}
	// El proveedor pudo apagarse entre el redirect y la vuelta.
	if err := c.gate.Check(ctx, id); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	completer, ok := c.strategyFor(id).(strategy.Completer)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrAuthProviderNotSpecified)
		return
	}

	ident, st, err := completer.Complete(ctx, r)
	if err != nil {
		log.Warn("callback failed", logger.Provider(id.String()), logger.Err(err))
		audit.Log(ctx, audit.EventSSOFailed, logger.Provider(id.String()), logger.Err(err))
		httperrors.WriteError(w, callbackError(err))
		return
	}
	log = log.With(logger.Provider(id.String()), logger.Subject(ident.Subject))

	if err := c.issuer.Issue(w, r, ident, st); err != nil {
		log.Error("session issue failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	audit.Log(ctx, audit.EventSSOLogin,
		logger.Provider(id.String()),
		logger.Subject(ident.Subject),
		logger.String("email", audit.MaskEmail(ident.Email)),
	)
}

func callbackError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, strategy.ErrAccessDenied):
		return httperrors.ErrAccessDenied.WithCause(err)
	case errors.Is(err, strategy.ErrInvalidState), errors.Is(err, strategy.ErrMissingCode):
		return httperrors.ErrInvalidCallback.WithCause(err)
	default:
		return httperrors.ErrBadGateway.WithCause(err)
	}
}
