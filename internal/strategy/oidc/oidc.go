// Package oidc implements the generic OpenID Connect strategy used for
// enterprise single sign-on.
package oidc

import (
	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

// Factory creates the OIDC strategy. The issuer is discovered lazily.
func Factory(creds config.ProviderCredentials, codec *strategy.StateCodec) (strategy.Strategy, error) {
	if err := strategy.RequireCredentials(creds); err != nil {
		return nil, err
	}
	if creds.Issuer == "" {
		return nil, strategy.ErrMissingIssuer
	}
	return strategy.NewOIDC(provider.OIDC, creds.Issuer, creds, codec, nil), nil
}
