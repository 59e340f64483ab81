// Package auth contiene los servicios que usan los controllers de /v1/auth.
package auth

import (
	"context"

	"github.com/dropDatabas3/authwire/internal/infraconfig"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
	"github.com/dropDatabas3/authwire/internal/provider"
)

// Registry es la vista del registro de proveedores que necesitan los servicios.
type Registry interface {
	Providers() []provider.ID
	Policy() provider.Policy
}

// ProvidersService calcula los proveedores utilizables en este momento.
type ProvidersService interface {
	List(ctx context.Context) ([]provider.ID, error)
}

type providersService struct {
	reg    Registry
	source infraconfig.Source
}

// NewProvidersService crea el servicio.
func NewProvidersService(reg Registry, source infraconfig.Source) ProvidersService {
	return &providersService{reg: reg, source: source}
}

// List devuelve los proveedores registrados que además pasan la política
// con la allow-list vigente. LOCAL no depende de la allow-list.
func (s *providersService) List(ctx context.Context) ([]provider.ID, error) {
	allowList, err := s.source.AllowList(ctx)
	if err != nil {
		logger.From(ctx).Error("infra config unavailable",
			logger.Layer("service"),
			logger.Op("ProvidersService.List"),
			logger.Err(err),
		)
		return nil, err
	}
	policy := s.reg.Policy()
	out := make([]provider.ID, 0, 4)
	for _, id := range s.reg.Providers() {
		if id == provider.Local || policy.Allowed(id, allowList) {
			out = append(out, id)
		}
	}
	return out, nil
}
