package oidc

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

type fakeIssuer struct {
	srv   *httptest.Server
	key   *rsa.PrivateKey
	nonce string
}

func newFakeIssuer(t *testing.T) *fakeIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	fi := &fakeIssuer{key: key}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                                fi.srv.URL,
			"authorization_endpoint":                fi.srv.URL + "/authorize",
			"token_endpoint":                        fi.srv.URL + "/token",
			"jwks_uri":                              fi.srv.URL + "/jwks",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "k1",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"iss":            fi.srv.URL,
			"aud":            "sso-client",
			"sub":            "user-123",
			"email":          "jane@corp.example",
			"email_verified": true,
			"name":           "Jane Doe",
			"nonce":          fi.nonce,
			"iat":            time.Now().Unix(),
			"exp":            time.Now().Add(time.Hour).Unix(),
		})
		tok.Header["kid"] = "k1"
		idToken, err := tok.SignedString(key)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at",
			"token_type":   "Bearer",
			"id_token":     idToken,
		})
	})
	fi.srv = httptest.NewServer(mux)
	t.Cleanup(fi.srv.Close)
	return fi
}

func creds() config.ProviderCredentials {
	return config.ProviderCredentials{
		ClientID:     "sso-client",
		ClientSecret: "sso-secret",
		CallbackURL:  "http://localhost/v1/auth/oidc/callback",
	}
}

func TestFactory_RequiresIssuer(t *testing.T) {
	_, err := Factory(creds(), strategy.NewStateCodec("k", 0))
	assert.ErrorIs(t, err, strategy.ErrMissingIssuer)
}

func TestActivateAndComplete(t *testing.T) {
	fi := newFakeIssuer(t)
	codec := strategy.NewStateCodec("k", time.Minute)
	s := strategy.NewOIDC(provider.OIDC, fi.srv.URL, creds(), codec, fi.srv.Client())

	target := "https://example.com/cb"
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/oidc", nil)
	require.NoError(t, s.Activate(rec, req, strategy.AuthenticateOptions{State: strategy.State{RedirectURI: &target}}))
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", loc.Path)
	assert.Contains(t, loc.Query().Get("scope"), "openid")

	state := loc.Query().Get("state")
	fi.nonce = loc.Query().Get("nonce")

	cb := httptest.NewRequest(http.MethodGet, "/v1/auth/oidc/callback?code=abc&state="+url.QueryEscape(state), nil)
	ident, st, err := s.Complete(context.Background(), cb)
	require.NoError(t, err)
	assert.Equal(t, "user-123", ident.Subject)
	assert.Equal(t, "jane@corp.example", ident.Email)
	assert.True(t, ident.EmailVerified)
	require.NotNil(t, st.RedirectURI)
	assert.Equal(t, target, *st.RedirectURI)
}

func TestComplete_NonceMismatch(t *testing.T) {
	fi := newFakeIssuer(t)
	codec := strategy.NewStateCodec("k", time.Minute)
	s := strategy.NewOIDC(provider.OIDC, fi.srv.URL, creds(), codec, fi.srv.Client())

	state, _, err := codec.Encode(provider.OIDC, strategy.State{})
	require.NoError(t, err)
	fi.nonce = "replayed"

	cb := httptest.NewRequest(http.MethodGet, "/cb?code=abc&state="+url.QueryEscape(state), nil)
	_, _, err = s.Complete(context.Background(), cb)
	assert.Error(t, err)
}

func TestActivate_DiscoveryFailureIsReturned(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	s := strategy.NewOIDC(provider.OIDC, dead.URL, creds(), strategy.NewStateCodec("k", 0), nil)
	rec := httptest.NewRecorder()
	err := s.Activate(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/oidc", nil), strategy.AuthenticateOptions{})

	assert.Error(t, err)
	assert.Empty(t, rec.Header().Get("Location"), "nothing written on failure")
}
