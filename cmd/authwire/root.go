package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "authwire",
		Short:         "Servicio de autenticación con proveedores SSO configurables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env es opcional; las variables ya exportadas tienen prioridad.
			if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("CONFIG_PATH"), "Path al config.yaml (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Archivo .env a cargar si existe")

	root.AddCommand(
		newServeCmd(opts),
		newProvidersCmd(opts),
		newMigrateCmd(opts),
	)
	return root
}

// load lee la config e inicializa el logger global.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.Init(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "authwire",
		Version: version,
	})
	if err != nil {
		return nil, nil, err
	}
	if unknown := cfg.UnknownProviders(); len(unknown) > 0 {
		log.Warn("ignoring unknown auth providers",
			logger.Component("config"),
			logger.Any("unknown", unknown),
			logger.Providers(cfg.StaticProviders().String()),
		)
	}
	return cfg, log, nil
}
