// Package github implements the GitHub OAuth 2.0 strategy.
// GitHub issues no id_token; the profile comes from the REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

// APIBase is the GitHub REST API root.
const APIBase = "https://api.github.com"

type user struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type email struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Factory creates the GitHub strategy.
func Factory(creds config.ProviderCredentials, codec *strategy.StateCodec) (strategy.Strategy, error) {
	s, err := New(creds, codec, oauthgithub.Endpoint, APIBase)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// New allows overriding the endpoints (GitHub Enterprise, tests).
func New(creds config.ProviderCredentials, codec *strategy.StateCodec, ep oauth2.Endpoint, apiBase string, opts ...strategy.OAuth2Option) (*strategy.OAuth2, error) {
	if err := strategy.RequireCredentials(creds); err != nil {
		return nil, err
	}
	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = []string{"user:email"}
	}
	return strategy.NewOAuth2(provider.GitHub, oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.CallbackURL,
		Scopes:       scopes,
		Endpoint:     ep,
	}, codec, profile(apiBase), opts...), nil
}

func profile(apiBase string) strategy.ProfileFunc {
	return func(ctx context.Context, client *http.Client, _ *oauth2.Token, _ string) (*strategy.Identity, error) {
		var u user
		if err := getJSON(ctx, client, apiBase+"/user", &u); err != nil {
			return nil, err
		}
		ident := &strategy.Identity{
			Subject:   strconv.FormatInt(u.ID, 10),
			Email:     u.Email,
			Name:      u.Name,
			AvatarURL: u.AvatarURL,
			Raw:       map[string]any{"login": u.Login},
		}
		if ident.Name == "" {
			ident.Name = u.Login
		}

		// El email público puede faltar; el primario verificado sale de /user/emails.
		var emails []email
		if err := getJSON(ctx, client, apiBase+"/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					ident.Email = e.Email
					ident.EmailVerified = true
					break
				}
			}
		}
		return ident, nil
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("github %s: http %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
