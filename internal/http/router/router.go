// Package router arma el árbol de rutas HTTP sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/authwire/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/authwire/internal/http/controllers/health"
	httperrors "github.com/dropDatabas3/authwire/internal/http/errors"
	mw "github.com/dropDatabas3/authwire/internal/http/middlewares"
	"github.com/dropDatabas3/authwire/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Auth    *authctrl.Controllers
	Health  *healthctrl.HealthController
	Metrics http.Handler // opcional

	// RateLimiter limita inicio y callback SSO; nil = sin límite.
	RateLimiter rate.Limiter
	// Proxies de confianza para resolver la IP del cliente; nil = peer TCP.
	Proxies *mw.ProxyTrust
}

// New registra todas las rutas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.WithRecover(), mw.WithRequestID(), mw.WithClientIP(deps.Proxies))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Health y métricas: sin logging (muy frecuentes)
	if deps.Health != nil {
		r.Get("/livez", deps.Health.Livez)
		r.Get("/readyz", deps.Health.Readyz)
	}
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	if deps.Auth != nil {
		r.Group(func(r chi.Router) {
			r.Use(mw.WithLogging(), mw.WithMetrics())
			registerAuthRoutes(r, deps.Auth, deps.RateLimiter)
		})
	}
	return r
}
