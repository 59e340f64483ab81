package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/provider"
)

// Discovery resolves an OpenID Connect issuer on first use and caches the
// result. A failed discovery is retried on the next call.
type Discovery struct {
	issuer   string
	clientID string
	http     *http.Client

	mu       sync.Mutex
	provider *oidc.Provider
}

// NewDiscovery does not perform any network call.
func NewDiscovery(issuer, clientID string, httpClient *http.Client) *Discovery {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Discovery{issuer: issuer, clientID: clientID, http: httpClient}
}

func (d *Discovery) get(ctx context.Context) (*oidc.Provider, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider != nil {
		return d.provider, nil
	}
	p, err := oidc.NewProvider(oidc.ClientContext(ctx, d.http), d.issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery %s: %w", d.issuer, err)
	}
	d.provider = p
	return p, nil
}

// Endpoint returns the discovered authorization and token endpoints.
func (d *Discovery) Endpoint(ctx context.Context) (oauth2.Endpoint, error) {
	p, err := d.get(ctx)
	if err != nil {
		return oauth2.Endpoint{}, err
	}
	return p.Endpoint(), nil
}

type idTokenClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Profile verifies the id_token returned with tok and maps its claims.
func (d *Discovery) Profile(ctx context.Context, _ *http.Client, tok *oauth2.Token, nonce string) (*Identity, error) {
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errors.New("token response without id_token")
	}
	p, err := d.get(ctx)
	if err != nil {
		return nil, err
	}
	idt, err := p.Verifier(&oidc.Config{ClientID: d.clientID}).Verify(oidc.ClientContext(ctx, d.http), raw)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	if idt.Nonce != nonce {
		return nil, errors.New("id_token nonce mismatch")
	}

	var c idTokenClaims
	if err := idt.Claims(&c); err != nil {
		return nil, fmt.Errorf("decode id_token claims: %w", err)
	}
	var all map[string]any
	_ = idt.Claims(&all)

	return &Identity{
		Subject:       idt.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Name:          c.Name,
		AvatarURL:     c.Picture,
		Raw:           all,
	}, nil
}

// NewOIDC builds a redirect strategy for an OpenID Connect issuer.
// Discovery happens on the first activation, never at construction.
func NewOIDC(id provider.ID, issuer string, creds config.ProviderCredentials, codec *StateCodec, httpClient *http.Client, opts ...OAuth2Option) *OAuth2 {
	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}
	d := NewDiscovery(issuer, creds.ClientID, httpClient)
	opts = append([]OAuth2Option{WithHTTPClient(httpClient), WithLazyEndpoint(d.Endpoint)}, opts...)
	return NewOAuth2(id, oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.CallbackURL,
		Scopes:       scopes,
	}, codec, d.Profile, opts...)
}
