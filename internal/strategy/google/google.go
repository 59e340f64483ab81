// Package google implements the Google OIDC strategy.
package google

import (
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

// Issuer is Google's OpenID Connect issuer.
const Issuer = "https://accounts.google.com"

// Factory creates the Google strategy.
func Factory(creds config.ProviderCredentials, codec *strategy.StateCodec) (strategy.Strategy, error) {
	if err := strategy.RequireCredentials(creds); err != nil {
		return nil, err
	}
	issuer := creds.Issuer
	if issuer == "" {
		issuer = Issuer
	}
	return strategy.NewOIDC(provider.Google, issuer, creds, codec, nil,
		strategy.WithAuthCodeOptions(oauth2.SetAuthURLParam("prompt", "select_account")),
	), nil
}
