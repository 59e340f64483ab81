package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/provider"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

type stubStrategy struct{ id provider.ID }

func (s stubStrategy) Provider() provider.ID { return s.id }

func (s stubStrategy) Activate(http.ResponseWriter, *http.Request, strategy.AuthenticateOptions) error {
	return nil
}

func stubFactories() Factories {
	f := Factories{}
	for _, id := range []provider.ID{provider.Google, provider.GitHub, provider.Microsoft, provider.OIDC} {
		id := id
		f[id] = func(config.ProviderCredentials, *strategy.StateCodec) (strategy.Strategy, error) {
			return stubStrategy{id: id}, nil
		}
	}
	return f
}

func testConfig(t *testing.T, static ...string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.AllowedProviders = static
	cfg.Auth.JWT.AccessSecret = "access"
	cfg.Auth.JWT.RefreshSecret = "refresh"
	cfg.Auth.JWT.StateSecret = "state"
	cfg.Storage.InfraStore = "memory"
	cfg.Cache.Kind = "memory"
	require.NoError(t, cfg.Validate())
	return cfg
}

func assemble(t *testing.T, static ...string) *Module {
	t.Helper()
	cfg := testConfig(t, static...)
	return Assemble(cfg, NewPolicy(cfg), stubFactories(), zap.NewNop())
}

func TestAssemble_StaticOnly(t *testing.T) {
	m := assemble(t, "GOOGLE", "GITHUB")

	assert.Equal(t, []provider.ID{provider.Local, provider.Google, provider.GitHub}, m.Providers())
	_, ok := m.Strategy(provider.Microsoft)
	assert.False(t, ok)
	assert.NotNil(t, m.Access())
	assert.NotNil(t, m.Refresh())
}

func TestAssemble_NoSocialProviders(t *testing.T) {
	m := assemble(t)
	assert.Equal(t, []provider.ID{provider.Local}, m.Providers())
}

func TestAssemble_FactoryErrorLeavesProviderOut(t *testing.T) {
	cfg := testConfig(t, "GOOGLE", "GITHUB")
	f := stubFactories()
	f[provider.GitHub] = func(config.ProviderCredentials, *strategy.StateCodec) (strategy.Strategy, error) {
		return nil, strategy.ErrMissingCredentials
	}

	m := Assemble(cfg, NewPolicy(cfg), f, zap.NewNop())
	assert.Equal(t, []provider.ID{provider.Local, provider.Google}, m.Providers())
}

func TestAssemble_OIDCWhenStaticallyEnabled(t *testing.T) {
	m := assemble(t, "OIDC")
	s, ok := m.Strategy(provider.OIDC)
	require.True(t, ok)
	assert.Equal(t, provider.OIDC, s.Provider())
}

func TestRegister_Unpopulated_ReturnsSameModule(t *testing.T) {
	m := assemble(t, "GOOGLE", "GITHUB")

	got, err := m.Register(context.Background(), infraconfig.NewMemoryStore())
	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestRegister_AllowListNarrows(t *testing.T) {
	m := assemble(t, "GOOGLE", "GITHUB")
	store := infraconfig.NewMemoryStore()
	store.Put(infraconfig.KeyAllowedAuthProviders, "GOOGLE")

	got, err := m.Register(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []provider.ID{provider.Local, provider.Google}, got.Providers())
	// phase 1 result is untouched
	assert.Equal(t, []provider.ID{provider.Local, provider.Google, provider.GitHub}, m.Providers())
}

func TestRegister_AllowListNeverWidens(t *testing.T) {
	m := assemble(t, "GOOGLE")
	store := infraconfig.NewMemoryStore()
	store.Put(infraconfig.KeyAllowedAuthProviders, "GOOGLE,GITHUB,MICROSOFT")

	got, err := m.Register(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []provider.ID{provider.Local, provider.Google}, got.Providers())
}

func TestRegister_EmptyAllowListKeepsOnlyLocal(t *testing.T) {
	m := assemble(t, "GOOGLE", "GITHUB", "MICROSOFT")
	store := infraconfig.NewMemoryStore()
	store.Put(infraconfig.KeyAllowedAuthProviders, "")

	got, err := m.Register(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []provider.ID{provider.Local}, got.Providers())
}

func TestRegister_StoreFailure(t *testing.T) {
	m := assemble(t, "GOOGLE")
	store := infraconfig.NewMemoryStore()
	store.FailWith(errors.New("connection refused"))

	got, err := m.Register(context.Background(), store)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrRegister)
	assert.ErrorContains(t, err, "connection refused")
}

func TestRegister_MalformedAllowList(t *testing.T) {
	m := assemble(t, "GOOGLE")
	store := infraconfig.NewMemoryStore()
	store.Put(infraconfig.KeyAllowedAuthProviders, "GOOGLE,FACEBOOK")

	_, err := m.Register(context.Background(), store)
	assert.ErrorIs(t, err, ErrRegister)
	assert.ErrorIs(t, err, infraconfig.ErrLoad)
}
