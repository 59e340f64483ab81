package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/auth"
	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/http/server"
	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}
}

// newApp arma el contenedor con infra config y registro de proveedores.
func newApp(cfg *config.Config, log *zap.Logger, extra ...fx.Option) *fx.App {
	options := []fx.Option{
		fx.Supply(cfg, log),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: l.Named("fx")}
			zl.UseLogLevel(zap.DebugLevel)
			return zl
		}),
		fx.Provide(auth.DefaultFactories),
		infraconfig.FxModule,
		auth.FxModule,
	}
	return fx.New(append(options, extra...)...)
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	app := newApp(cfg, log, server.FxModule)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	sig := <-app.Wait()
	log.Info("stopping", logger.String("signal", fmt.Sprint(sig.Signal)))

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("exit code %d", sig.ExitCode)
	}
	return nil
}
