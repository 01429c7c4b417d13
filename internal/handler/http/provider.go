package http

import (
	"log/slog"
	"net/http"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/service"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/httputil"
)

// ProviderHandler handles HTTP requests for provider endpoints.
type ProviderHandler struct {
	service *service.BlueprintService
	logger  *slog.Logger
}

// NewProviderHandler creates a new provider HTTP handler.
func NewProviderHandler(svc *service.BlueprintService, logger *slog.Logger) *ProviderHandler {
	return &ProviderHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProviders handles GET /api/v1/providers
// @Summary List registered providers
// @Description Returns identity and current rate-limit info for every registered provider
// @Tags providers
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/providers [get]
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.Providers()
	if err != nil {
		writeProviderError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: infos})
}

// CheckAvailability handles GET /api/v1/providers/availability
// @Summary Probe provider availability
// @Description Probes one provider when ?provider= is set, otherwise all of them concurrently
// @Tags providers
// @Produce json
// @Param provider query string false "Restrict the probe to one provider"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/providers/availability [get]
func (h *ProviderHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.service.CheckAvailability(r.Context(), r.URL.Query().Get("provider"))
	if err != nil {
		writeProviderError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: availability})
}
