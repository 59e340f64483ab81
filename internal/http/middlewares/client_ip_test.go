package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyTrust_ClientIP(t *testing.T) {
	trust, err := NewProxyTrust([]string{"10.0.0.0/8", "192.168.1.10"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		trust   *ProxyTrust
		remote  string
		headers map[string]string
		want    string
	}{
		{name: "no trust ignores xff", trust: nil, remote: "198.51.100.7:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.1"}, want: "198.51.100.7"},
		{name: "untrusted peer ignores xff", trust: trust, remote: "198.51.100.7:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.1"}, want: "198.51.100.7"},
		{name: "trusted peer uses xff", trust: trust, remote: "10.1.2.3:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.1"}, want: "203.0.113.1"},
		{name: "skips trusted hops", trust: trust, remote: "10.1.2.3:1", headers: map[string]string{"X-Forwarded-For": "6.6.6.6, 203.0.113.1, 192.168.1.10"}, want: "203.0.113.1"},
		{name: "garbage hop stops the walk", trust: trust, remote: "10.1.2.3:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.9, junk, 10.0.0.5"}, want: "10.0.0.5"},
		{name: "x-real-ip from trusted peer", trust: trust, remote: "192.168.1.10:1", headers: map[string]string{"X-Real-IP": "203.0.113.2"}, want: "203.0.113.2"},
		{name: "bad remote addr", trust: trust, remote: "pipe", want: "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, tt.trust.ClientIP(r))
		})
	}
}

func TestNewProxyTrust(t *testing.T) {
	trust, err := NewProxyTrust(nil)
	require.NoError(t, err)
	assert.Nil(t, trust)

	_, err = NewProxyTrust([]string{"10.0.0.0/33"})
	assert.Error(t, err)
	_, err = NewProxyTrust([]string{"proxy.internal"})
	assert.Error(t, err)
}

func TestWithClientIP_StoresInContext(t *testing.T) {
	var got string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClientIP(r.Context())
	}), WithClientIP(nil))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:1234"
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "198.51.100.7", got)
}
