package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/auth"
	"github.com/dropDatabas3/authwire/internal/config"
	authctrl "github.com/dropDatabas3/authwire/internal/http/controllers/auth"
	"github.com/dropDatabas3/authwire/internal/http/guards"
	authsvc "github.com/dropDatabas3/authwire/internal/http/services/auth"
	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

// fakeStrategy redirige al "proveedor" y completa con una identidad fija.
type fakeStrategy struct {
	id  provider.ID
	err error
}

func (f fakeStrategy) Provider() provider.ID { return f.id }

func (f fakeStrategy) Activate(w http.ResponseWriter, r *http.Request, opts strategy.AuthenticateOptions) error {
	http.Redirect(w, r, "https://idp.example/"+f.id.Lower(), http.StatusFound)
	return nil
}

func (f fakeStrategy) Complete(ctx context.Context, r *http.Request) (*strategy.Identity, strategy.State, error) {
	if f.err != nil {
		return nil, strategy.State{}, f.err
	}
	target := r.URL.Query().Get("to")
	return &strategy.Identity{Provider: f.id, Subject: "u-1", Email: "u@example.com"}, strategy.State{RedirectURI: &target}, nil
}

type env struct {
	handler http.Handler
	source  *infraconfig.StaticSource
}

func newEnv(t *testing.T, completeErr error, static ...string) *env {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.AllowedProviders = static
	cfg.Auth.JWT.AccessSecret = "access"
	cfg.Auth.JWT.RefreshSecret = "refresh"
	cfg.Storage.InfraStore = "memory"
	cfg.Cache.Kind = "memory"
	require.NoError(t, cfg.Validate())

	factories := auth.Factories{}
	for _, id := range []provider.ID{provider.Google, provider.GitHub, provider.Microsoft, provider.OIDC} {
		id := id
		factories[id] = func(config.ProviderCredentials, *strategy.StateCodec) (strategy.Strategy, error) {
			return fakeStrategy{id: id, err: completeErr}, nil
		}
	}
	policy := auth.NewPolicy(cfg)
	m := auth.Assemble(cfg, policy, factories, zap.NewNop())

	e := &env{source: &infraconfig.StaticSource{}}
	src := sourceFunc(func(ctx context.Context) (*provider.Set, error) { return e.source.AllowList(ctx) })
	gate := guards.NewProviderGate(policy, src)
	e.handler = New(Deps{Auth: authctrl.NewControllers(authctrl.Deps{
		Registry:  m,
		Gate:      gate,
		Providers: authsvc.NewProvidersService(m, src),
		Issuer:    authsvc.NewRedirectIssuer("", []string{"https://app.example"}),
	})})
	return e
}

type sourceFunc func(ctx context.Context) (*provider.Set, error)

func (f sourceFunc) AllowList(ctx context.Context) (*provider.Set, error) { return f(ctx) }

func (e *env) get(target string, mod ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, m := range mod {
		m(req)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func allow(ids ...provider.ID) *provider.Set {
	s := provider.NewSet(ids...)
	return &s
}

func TestProviders_ReflectsLiveAllowList(t *testing.T) {
	e := newEnv(t, nil, "GOOGLE", "GITHUB", "OIDC")

	var body struct{ Providers []string }
	require.NoError(t, json.Unmarshal(e.get("/v1/auth/providers").Body.Bytes(), &body))
	assert.Equal(t, []string{"LOCAL", "GOOGLE", "GITHUB", "OIDC"}, body.Providers)

	e.source.List = allow(provider.GitHub)
	require.NoError(t, json.Unmarshal(e.get("/v1/auth/providers").Body.Bytes(), &body))
	assert.Equal(t, []string{"LOCAL", "GITHUB"}, body.Providers)
}

func TestStart_Gate(t *testing.T) {
	e := newEnv(t, nil, "GOOGLE", "OIDC")

	rec := e.get("/v1/auth/oidc?redirect_uri=https://app/cb")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example/oidc", rec.Header().Get("Location"))

	e.source.List = allow(provider.Google)
	rec = e.get("/v1/auth/oidc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"AUTH_PROVIDER_NOT_SPECIFIED","statusCode":404}`, rec.Body.String())

	assert.Equal(t, http.StatusFound, e.get("/v1/auth/google").Code)
}

func TestStart_UnknownAndLocal(t *testing.T) {
	e := newEnv(t, nil, "GOOGLE")
	for _, p := range []string{"/v1/auth/facebook", "/v1/auth/local", "/v1/auth/github"} {
		assert.Equal(t, http.StatusNotFound, e.get(p).Code, p)
	}
}

func TestCallback_RedirectsToState(t *testing.T) {
	e := newEnv(t, nil, "GITHUB")
	rec := e.get("/v1/auth/github/callback?to=https://app.example/home")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://app.example/home", rec.Header().Get("Location"))
}

func TestCallback_IgnoresForeignRedirect(t *testing.T) {
	e := newEnv(t, nil, "GITHUB")
	rec := e.get("/v1/auth/github/callback?to=https://evil.example/phish")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), `"sub":"u-1"`)
}

func TestCallback_NoTargetReturnsIdentity(t *testing.T) {
	e := newEnv(t, nil, "GITHUB")
	rec := e.get("/v1/auth/github/callback")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sub":"u-1"`)
}

func TestCallback_Errors(t *testing.T) {
	e := newEnv(t, strategy.ErrAccessDenied, "GITHUB")
	assert.Equal(t, http.StatusUnauthorized, e.get("/v1/auth/github/callback").Code)

	e = newEnv(t, strategy.ErrInvalidState, "GITHUB")
	assert.Equal(t, http.StatusBadRequest, e.get("/v1/auth/github/callback").Code)

	e.source.List = allow()
	assert.Equal(t, http.StatusNotFound, e.get("/v1/auth/github/callback").Code)
}

func TestVerify(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.get("/v1/auth/verify")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_MISSING")

	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("refresh"))
	require.NoError(t, err)

	rec = e.get("/v1/auth/verify-refresh", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "refresh_token", Value: tok})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sub":"u-1"`)

	// firmado con el secreto de refresh: no sirve como access token
	rec = e.get("/v1/auth/verify", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotFound(t *testing.T) {
	e := newEnv(t, nil)
	rec := e.get("/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
