package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

func issue(t *testing.T, iss RedirectIssuer, redirect *string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/github/callback", nil)
	ident := &strategy.Identity{Provider: provider.GitHub, Subject: "42", Email: "ada@example.com"}
	require.NoError(t, iss.Issue(rec, req, ident, strategy.State{RedirectURI: redirect}))
	return rec
}

func ptr(s string) *string { return &s }

func TestRedirectIssuer_Targets(t *testing.T) {
	iss := NewRedirectIssuer("https://app.example/home", []string{"https://App.Example", "http://localhost:3000/"})

	tests := []struct {
		name     string
		redirect *string
		want     string
	}{
		{name: "allowed origin", redirect: ptr("https://app.example/after?x=1"), want: "https://app.example/after?x=1"},
		{name: "allowed origin with port", redirect: ptr("http://localhost:3000/cb"), want: "http://localhost:3000/cb"},
		{name: "foreign origin", redirect: ptr("https://evil.example/phish"), want: "https://app.example/home"},
		{name: "same host other scheme", redirect: ptr("http://app.example/after"), want: "https://app.example/home"},
		{name: "host prefix", redirect: ptr("https://app.example.evil.com/"), want: "https://app.example/home"},
		{name: "userinfo", redirect: ptr("https://app.example@evil.example/"), want: "https://app.example/home"},
		{name: "protocol relative", redirect: ptr("//evil.example/x"), want: "https://app.example/home"},
		{name: "javascript", redirect: ptr("javascript:alert(1)"), want: "https://app.example/home"},
		{name: "absent", redirect: nil, want: "https://app.example/home"},
		{name: "empty", redirect: ptr(""), want: "https://app.example/home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := issue(t, iss, tt.redirect)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestRedirectIssuer_NoTargetWritesIdentity(t *testing.T) {
	rec := issue(t, NewRedirectIssuer("", nil), ptr("https://evil.example/phish"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.JSONEq(t, `{"provider":"GITHUB","sub":"42","email":"ada@example.com","email_verified":false}`, rec.Body.String())
}

func TestNewRedirectIssuer_DropsInvalidOrigins(t *testing.T) {
	iss := NewRedirectIssuer("", []string{"ftp://files.example", "not a url", "https://ok.example"})
	assert.Equal(t, []string{"https://ok.example"}, iss.AllowedOrigins)
	assert.True(t, iss.Allowed("https://OK.example/path"))
	assert.False(t, iss.Allowed("ftp://files.example/x"))
}
