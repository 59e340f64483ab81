package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
	migrations "github.com/dropDatabas3/authwire/migrations/postgres"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down] [steps]",
		Short: "Aplica las migraciones embebidas de infra_config",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			steps := 0
			if len(args) >= 1 {
				action = args[0]
			}
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 0 {
					return fmt.Errorf("steps inválido: %q", args[1])
				}
				steps = n
			}

			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Storage.InfraStore != "postgres" {
				return errors.New("migrate requiere storage.infra_store=postgres")
			}

			ctx := cmd.Context()
			pool, err := infraconfig.Connect(ctx, cfg.Storage.DSN, cfg.Storage.MaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := infraconfig.Migrate(ctx, pool, migrations.FS, action, steps)
			for _, f := range applied {
				log.Info("migration applied", logger.String("file", f), logger.String("action", action))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", len(applied))
			return nil
		},
	}
}
