// Package auth contiene los DTOs de las rutas /v1/auth.
package auth

// ProvidersResponse es la respuesta de GET /v1/auth/providers.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
}
