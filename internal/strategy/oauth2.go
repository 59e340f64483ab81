package strategy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dropDatabas3/authwire/internal/provider"
)

// ProfileFunc fetches the user profile once the code has been exchanged.
// nonce is the value carried in the state, for providers that echo it back.
type ProfileFunc func(ctx context.Context, client *http.Client, tok *oauth2.Token, nonce string) (*Identity, error)

// OAuth2 is the redirect-based strategy shared by the concrete providers.
type OAuth2 struct {
	id       provider.ID
	config   *oauth2.Config
	codec    *StateCodec
	http     *http.Client
	profile  ProfileFunc
	authOpts []oauth2.AuthCodeOption

	// endpoint resolves the provider endpoint lazily (OIDC discovery). When
	// nil, config.Endpoint is used as is.
	endpoint func(ctx context.Context) (oauth2.Endpoint, error)
}

// OAuth2Option customizes an OAuth2 strategy.
type OAuth2Option func(*OAuth2)

// WithHTTPClient overrides the client used for token exchange and profile calls.
func WithHTTPClient(c *http.Client) OAuth2Option {
	return func(s *OAuth2) {
		if c != nil {
			s.http = c
		}
	}
}

// WithAuthCodeOptions appends static parameters to the authorization URL.
func WithAuthCodeOptions(opts ...oauth2.AuthCodeOption) OAuth2Option {
	return func(s *OAuth2) { s.authOpts = append(s.authOpts, opts...) }
}

// WithLazyEndpoint resolves the endpoint on first use.
func WithLazyEndpoint(fn func(ctx context.Context) (oauth2.Endpoint, error)) OAuth2Option {
	return func(s *OAuth2) { s.endpoint = fn }
}

// NewOAuth2 builds the shared strategy. cfg is copied.
func NewOAuth2(id provider.ID, cfg oauth2.Config, codec *StateCodec, profile ProfileFunc, opts ...OAuth2Option) *OAuth2 {
	s := &OAuth2{
		id:      id,
		config:  &cfg,
		codec:   codec,
		http:    &http.Client{Timeout: 10 * time.Second},
		profile: profile,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *OAuth2) Provider() provider.ID { return s.id }

func (s *OAuth2) resolved(ctx context.Context) (*oauth2.Config, error) {
	if s.endpoint == nil {
		return s.config, nil
	}
	ep, err := s.endpoint(ctx)
	if err != nil {
		return nil, err
	}
	cfg := *s.config
	cfg.Endpoint = ep
	return &cfg, nil
}

// Activate redirects the browser to the provider's authorization endpoint.
func (s *OAuth2) Activate(w http.ResponseWriter, r *http.Request, opts AuthenticateOptions) error {
	cfg, err := s.resolved(r.Context())
	if err != nil {
		return fmt.Errorf("%s: resolve endpoint: %w", s.id.Lower(), err)
	}
	state, nonce, err := s.codec.Encode(s.id, opts.State)
	if err != nil {
		return err
	}
	authOpts := append([]oauth2.AuthCodeOption{oauth2.SetAuthURLParam("nonce", nonce)}, s.authOpts...)

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, cfg.AuthCodeURL(state, authOpts...), http.StatusFound)
	return nil
}

// Complete verifies the state, exchanges the code and loads the profile.
func (s *OAuth2) Complete(ctx context.Context, r *http.Request) (*Identity, State, error) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return nil, State{}, fmt.Errorf("%w: %s %s", ErrAccessDenied, e, q.Get("error_description"))
	}
	st, nonce, err := s.codec.Decode(s.id, q.Get("state"))
	if err != nil {
		return nil, State{}, err
	}
	code := q.Get("code")
	if code == "" {
		return nil, st, ErrMissingCode
	}

	cfg, err := s.resolved(ctx)
	if err != nil {
		return nil, st, fmt.Errorf("%s: resolve endpoint: %w", s.id.Lower(), err)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.http)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, st, fmt.Errorf("%s: exchange code: %w", s.id.Lower(), err)
	}

	ident, err := s.profile(ctx, cfg.Client(ctx, tok), tok, nonce)
	if err != nil {
		return nil, st, fmt.Errorf("%s: load profile: %w", s.id.Lower(), err)
	}
	ident.Provider = s.id
	return ident, st, nil
}
