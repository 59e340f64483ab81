package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/config"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

// Handler es el árbol de rutas completo. Tipo propio para no chocar con
// otros http.Handler del grafo.
type Handler http.Handler

// New construye el http.Server con los timeouts de config.
func New(cfg *config.Config, h Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Run engancha el servidor al lifecycle: escucha en OnStart (así un puerto
// ocupado falla el arranque) y hace shutdown ordenado en OnStop. Si Serve
// termina con error, pide el apagado de la app.
func Run(lc fx.Lifecycle, sd fx.Shutdowner, srv *http.Server, log *zap.Logger) {
	log = log.With(logger.Component("http.server"))
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			// con ":0" queda el puerto real
			srv.Addr = ln.Addr().String()
			log.Info("listening", logger.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", logger.Err(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down")
			return srv.Shutdown(ctx)
		},
	})
}
