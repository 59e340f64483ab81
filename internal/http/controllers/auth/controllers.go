// Package auth contiene los controllers de /v1/auth.
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/authwire/internal/http/guards"
	svc "github.com/dropDatabas3/authwire/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/authwire/internal/jwt"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

// Registry es lo que los controllers necesitan del registro de proveedores.
// *auth.Module lo implementa.
type Registry interface {
	svc.Registry
	Strategy(id provider.ID) (strategy.Strategy, bool)
	Access() *jwtx.Verifier
	Refresh() *jwtx.Verifier
}

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Providers *ProvidersController
	SSO       *SSOController
	Verify    *VerifyController
}

// Deps son las dependencias del agregador.
type Deps struct {
	Registry  Registry
	Gate      *guards.ProviderGate
	Providers svc.ProvidersService
	Issuer    svc.SessionIssuer
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Providers: NewProvidersController(d.Providers),
		SSO:       NewSSOController(d.Registry, d.Gate, d.Issuer),
		Verify:    NewVerifyController(d.Registry),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
