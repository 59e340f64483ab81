package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/provider"
)

func newApp(t *testing.T, store infraconfig.Store, target *(*Module), static ...string) *fx.App {
	t.Helper()
	return fx.New(
		fx.NopLogger,
		fx.Supply(testConfig(t, static...), zap.NewNop()),
		fx.Provide(
			func() infraconfig.Store { return store },
			stubFactories,
		),
		FxModule,
		fx.Populate(target),
	)
}

func TestFxModule_Bootstraps(t *testing.T) {
	store := infraconfig.NewMemoryStore()
	store.Put(infraconfig.KeyAllowedAuthProviders, "GITHUB")

	var m *Module
	app := newApp(t, store, &m, "GOOGLE", "GITHUB")
	require.NoError(t, app.Err())
	assert.Equal(t, []provider.ID{provider.Local, provider.GitHub}, m.Providers())
}

func TestFxModule_RegisterFailureAbortsBootstrap(t *testing.T) {
	store := infraconfig.NewMemoryStore()
	store.FailWith(errors.New("db down"))

	var m *Module
	app := newApp(t, store, &m, "GOOGLE")
	err := app.Err()
	require.Error(t, err)
	assert.ErrorContains(t, err, ErrRegister.Error())
	assert.Nil(t, m)
}
