package auth

import "time"

// IdentityResponse se devuelve cuando el callback no tiene a dónde redirigir.
type IdentityResponse struct {
	Provider      string `json:"provider"`
	Subject       string `json:"sub"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
}

// VerifyResponse es la respuesta de /v1/auth/verify y /v1/auth/verify-refresh.
type VerifyResponse struct {
	Valid     bool       `json:"valid"`
	Subject   string     `json:"sub"`
	ExpiresAt *time.Time `json:"exp,omitempty"`
}
