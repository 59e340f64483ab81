// Package health chequea las dependencias externas del proceso.
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	dto "github.com/dropDatabas3/authwire/internal/http/dto/health"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

// Check es un chequeo de un componente; nil = ok.
type Check func(ctx context.Context) error

// HealthService agrega los chequeos.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

type healthService struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewHealthService crea el servicio con los chequeos nombrados.
func NewHealthService(checks map[string]Check) HealthService {
	return &healthService{checks: checks, timeout: 2 * time.Second}
}

// Check corre los chequeos en paralelo; uno caído marca "unavailable".
func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		resp = dto.HealthResponse{Status: "ready", Components: make(map[string]string, len(s.checks))}
	)
	var g errgroup.Group
	for name, check := range s.checks {
		g.Go(func() error {
			status := "ok"
			if err := check(ctx); err != nil {
				// la causa va al log; la respuesta es pública
				status = "error"
				logger.From(ctx).Warn("readiness check failed",
					logger.Layer("service"),
					logger.Component(name),
					logger.Err(err),
				)
			}
			mu.Lock()
			defer mu.Unlock()
			resp.Components[name] = status
			if status != "ok" {
				resp.Status = "unavailable"
			}
			return nil
		})
	}
	_ = g.Wait()
	return resp
}
