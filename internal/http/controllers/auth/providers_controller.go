package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/authwire/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/authwire/internal/http/errors"
	svc "github.com/dropDatabas3/authwire/internal/http/services/auth"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

// ProvidersController handles GET /v1/auth/providers.
type ProvidersController struct {
	service svc.ProvidersService
}

// NewProvidersController creates a new providers controller.
func NewProvidersController(service svc.ProvidersService) *ProvidersController {
	return &ProvidersController{service: service}
}

// GetProviders devuelve los proveedores habilitados en este momento.
func (c *ProvidersController) GetProviders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProvidersController.GetProviders"))

	ids, err := c.service.List(ctx)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		return
	}

	resp := dto.ProvidersResponse{Providers: make([]string, len(ids))}
	for i, id := range ids {
		resp.Providers[i] = id.String()
	}
	writeJSON(w, http.StatusOK, resp)

	log.Debug("providers returned", logger.Int("count", len(ids)))
}
