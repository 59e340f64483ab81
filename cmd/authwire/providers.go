package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/dropDatabas3/authwire/internal/auth"
)

// providers corre las dos fases del registro y muestra el conjunto activo.
// Sale con error si la infra config no se puede leer.
func newProvidersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Muestra los proveedores activos tras el registro",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}

			var m *auth.Module
			app := newApp(cfg, log, fx.Populate(&m))
			if err := app.Err(); err != nil {
				return err
			}
			// Start/Stop sólo para que corran los OnStop (pool y cache).
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() { _ = app.Stop(context.Background()) }()

			ids := m.Providers()
			names := make([]string, len(ids))
			for i, id := range ids {
				names[i] = id.String()
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, ","))
			return nil
		},
	}
}
