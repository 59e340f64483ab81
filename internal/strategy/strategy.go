// Package strategy defines the provider-specific authentication capability
// the request gate delegates to, plus the shared OAuth2/OIDC machinery the
// concrete providers (sub-packages) build on.
//
// The handshakes themselves (token exchange, id_token signature checks) are
// delegated to golang.org/x/oauth2 and coreos/go-oidc.
package strategy

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/provider"
)

// State is the request-scoped data round-tripped through the identity provider.
type State struct {
	// RedirectURI is the caller's post-login target. nil means the caller
	// did not send one; it is never synthesized here.
	RedirectURI *string `json:"redirect_uri,omitempty"`
}

// AuthenticateOptions are handed to Activate by the gate.
type AuthenticateOptions struct {
	State State
}

// Strategy starts one provider's authentication handshake.
type Strategy interface {
	Provider() provider.ID
	// Activate writes the response that starts the handshake (usually a
	// redirect to the identity provider). Errors are opaque to callers.
	Activate(w http.ResponseWriter, r *http.Request, opts AuthenticateOptions) error
}

// Completer is implemented by redirect-based strategies that finish the
// handshake on a callback request.
type Completer interface {
	Complete(ctx context.Context, r *http.Request) (*Identity, State, error)
}

// Identity is the normalized user profile returned by a completed handshake.
type Identity struct {
	Provider      provider.ID
	Subject       string // unique id at the provider (sub claim)
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string

	Raw map[string]any
}

// Factory creates a strategy from static credentials.
type Factory func(creds config.ProviderCredentials, codec *StateCodec) (Strategy, error)

var (
	ErrMissingCredentials = errors.New("strategy: client_id and client_secret are required")
	ErrMissingIssuer      = errors.New("strategy: issuer is required")
	ErrMissingCode        = errors.New("strategy: callback without authorization code")
	ErrInvalidState       = errors.New("strategy: invalid or expired state")
	ErrAccessDenied       = errors.New("strategy: identity provider denied access")
)

// RequireCredentials fails with ErrMissingCredentials when creds cannot be
// used for a confidential OAuth2 client.
func RequireCredentials(creds config.ProviderCredentials) error {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}
