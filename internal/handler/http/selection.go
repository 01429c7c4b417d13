package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/service"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/tier"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/httputil"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/validator"
)

// SelectionHandler handles HTTP requests for shop selection endpoints.
type SelectionHandler struct {
	service *service.SelectionService
	logger  *slog.Logger
}

// NewSelectionHandler creates a new selection HTTP handler.
func NewSelectionHandler(svc *service.SelectionService, logger *slog.Logger) *SelectionHandler {
	return &SelectionHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddSelectionRequest is the JSON request body for adding a blueprint to a
// shop's selection.
type AddSelectionRequest struct {
	ProviderID  string `json:"provider_id" validate:"required"`
	BlueprintID string `json:"blueprint_id" validate:"required"`
	Tier        string `json:"tier"`
}

// BatchValidateRequest is the JSON request body for validating a batch of
// candidate blueprints against a tier without persisting anything.
type BatchValidateRequest struct {
	Tier       string                `json:"tier"`
	Candidates []domain.BlueprintRef `json:"candidates" validate:"required,min=1,max=100,dive"`
}

// --- Handlers ---

// ListSelection handles GET /api/v1/shops/{shopID}/selection
// @Summary List a shop's selected blueprints
// @Tags selection
// @Produce json
// @Param shopID path string true "Shop UUID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/shops/{shopID}/selection [get]
func (h *SelectionHandler) ListSelection(w http.ResponseWriter, r *http.Request) {
	shopID, ok := httputil.ParseUUID(w, chi.URLParam(r, "shopID"))
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), shopID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

// AddSelection handles POST /api/v1/shops/{shopID}/selection
// @Summary Add a blueprint to a shop's selection
// @Description Resolves the blueprint from its provider, validates the addition against the shop's tier, and persists it
// @Tags selection
// @Accept json
// @Produce json
// @Param shopID path string true "Shop UUID"
// @Param request body AddSelectionRequest true "Blueprint to add"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/shops/{shopID}/selection [post]
func (h *SelectionHandler) AddSelection(w http.ResponseWriter, r *http.Request) {
	shopID, ok := httputil.ParseUUID(w, chi.URLParam(r, "shopID"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	t, ok := parseTier(w, req.Tier)
	if !ok {
		return
	}

	item, result, err := h.service.Add(r.Context(), service.AddInput{
		ShopID:      shopID.String(),
		ProviderID:  req.ProviderID,
		BlueprintID: req.BlueprintID,
		Tier:        t,
	})
	if err != nil {
		writeProviderError(w, r, err, h.logger)
		return
	}
	if item == nil {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, httputil.Response{
			Data:  result,
			Error: &httputil.ErrorResponse{Code: "TIER_LIMIT_EXCEEDED", Message: result.Message},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: item})
}

// RemoveSelection handles DELETE /api/v1/shops/{shopID}/selection/{id}
// @Summary Remove a blueprint from a shop's selection
// @Tags selection
// @Produce json
// @Param shopID path string true "Shop UUID"
// @Param id path string true "Selection item UUID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/shops/{shopID}/selection/{id} [delete]
func (h *SelectionHandler) RemoveSelection(w http.ResponseWriter, r *http.Request) {
	shopID, ok := httputil.ParseUUID(w, chi.URLParam(r, "shopID"))
	if !ok {
		return
	}
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), shopID.String(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetUsage handles GET /api/v1/shops/{shopID}/usage
// @Summary Report a shop's usage against its tier limits
// @Tags selection
// @Produce json
// @Param shopID path string true "Shop UUID"
// @Param tier query string false "Subscription tier" Enums(free,creator,pro,enterprise) default(free)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/shops/{shopID}/usage [get]
func (h *SelectionHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	shopID, ok := httputil.ParseUUID(w, chi.URLParam(r, "shopID"))
	if !ok {
		return
	}

	t, ok := parseTier(w, r.URL.Query().Get("tier"))
	if !ok {
		return
	}

	stats, err := h.service.Usage(r.Context(), shopID.String(), t)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// ValidateBatch handles POST /api/v1/shops/{shopID}/selection/validate
// @Summary Validate candidate blueprints against a tier
// @Description Dry-run validation: each candidate is checked against the current selection plus the other candidates, nothing is persisted
// @Tags selection
// @Accept json
// @Produce json
// @Param shopID path string true "Shop UUID"
// @Param request body BatchValidateRequest true "Candidates to validate"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/shops/{shopID}/selection/validate [post]
func (h *SelectionHandler) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	shopID, ok := httputil.ParseUUID(w, chi.URLParam(r, "shopID"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req BatchValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	t, ok := parseTier(w, req.Tier)
	if !ok {
		return
	}

	results, err := h.service.ValidateBatch(r.Context(), shopID.String(), req.Candidates, t)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: results})
}

// parseTier parses a tier string, writing a 400 response on an unknown
// value. An empty string defaults to the free tier.
func parseTier(w http.ResponseWriter, s string) (tier.Tier, bool) {
	t, err := tier.Parse(s)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "tier must be one of: free, creator, pro, enterprise"},
		})
		return "", false
	}
	return t, true
}
