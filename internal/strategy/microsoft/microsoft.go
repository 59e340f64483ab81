// Package microsoft implements the Microsoft identity platform strategy.
// Supports personal accounts and Azure AD work/school accounts.
package microsoft

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

// GraphBase is the Microsoft Graph root used for the profile call.
const GraphBase = "https://graph.microsoft.com/v1.0"

type me struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// Factory creates the Microsoft strategy for creds.Tenant ("common" by default).
func Factory(creds config.ProviderCredentials, codec *strategy.StateCodec) (strategy.Strategy, error) {
	tenant := creds.Tenant
	if tenant == "" {
		tenant = "common"
	}
	s, err := New(creds, codec, microsoft.AzureADEndpoint(tenant), GraphBase)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// New allows overriding the endpoints (sovereign clouds, tests).
func New(creds config.ProviderCredentials, codec *strategy.StateCodec, ep oauth2.Endpoint, graphBase string, opts ...strategy.OAuth2Option) (*strategy.OAuth2, error) {
	if err := strategy.RequireCredentials(creds); err != nil {
		return nil, err
	}
	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = []string{"user.read"}
	}
	return strategy.NewOAuth2(provider.Microsoft, oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.CallbackURL,
		Scopes:       scopes,
		Endpoint:     ep,
	}, codec, profile(graphBase), append([]strategy.OAuth2Option{
		strategy.WithAuthCodeOptions(oauth2.SetAuthURLParam("prompt", "select_account")),
	}, opts...)...), nil
}

func profile(graphBase string) strategy.ProfileFunc {
	return func(ctx context.Context, client *http.Client, _ *oauth2.Token, _ string) (*strategy.Identity, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, graphBase+"/me", nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("graph /me: http %d", resp.StatusCode)
		}
		var m me
		if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
			return nil, err
		}
		email := m.Mail
		if email == "" {
			email = m.UserPrincipalName
		}
		return &strategy.Identity{
			Subject: m.ID,
			Email:   email,
			Name:    m.DisplayName,
		}, nil
	}
}
