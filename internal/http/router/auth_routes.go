package router

import (
	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/authwire/internal/http/controllers/auth"
	mw "github.com/dropDatabas3/authwire/internal/http/middlewares"
	"github.com/dropDatabas3/authwire/internal/rate"
)

// registerAuthRoutes registra /v1/auth. Las rutas estáticas tienen
// prioridad sobre {provider} en chi.
func registerAuthRoutes(r chi.Router, c *authctrl.Controllers, limiter rate.Limiter) {
	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.Get("/providers", c.Providers.GetProviders)
		r.Get("/verify", c.Verify.VerifyAccess)
		r.Get("/verify-refresh", c.Verify.VerifyRefresh)

		r.Group(func(r chi.Router) {
			r.Use(mw.WithRateLimit(limiter, mw.IPPathRateKey))
			r.Get("/{provider}", c.SSO.Start)
			r.Get("/{provider}/callback", c.SSO.Callback)
		})
	})
}
