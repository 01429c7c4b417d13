package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/service"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/httputil"
)

// BlueprintHandler handles HTTP requests for catalog endpoints.
type BlueprintHandler struct {
	service *service.BlueprintService
	logger  *slog.Logger
}

// NewBlueprintHandler creates a new blueprint HTTP handler.
func NewBlueprintHandler(svc *service.BlueprintService, logger *slog.Logger) *BlueprintHandler {
	return &BlueprintHandler{
		service: svc,
		logger:  logger,
	}
}

// SearchBlueprints handles GET /api/v1/blueprints
// @Summary Search blueprints across providers
// @Description Queries one provider when ?provider= is set, otherwise fans out to all registered providers and merges the pages
// @Tags blueprints
// @Produce json
// @Param provider query string false "Restrict the search to one provider"
// @Param query query string false "Free-text query"
// @Param category query string false "Product category"
// @Param tags query string false "Comma-separated tag list"
// @Param techniques query string false "Comma-separated printing techniques"
// @Param in_stock query bool false "Only blueprints with available stock"
// @Param min_price query int false "Minimum base price in minor units"
// @Param max_price query int false "Maximum base price in minor units"
// @Param sort_by query string false "Sort field" Enums(name,price,updated_at)
// @Param sort_order query string false "Sort direction" Enums(asc,desc)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/blueprints [get]
func (h *BlueprintHandler) SearchBlueprints(w http.ResponseWriter, r *http.Request) {
	params, ok := parseSearchParams(w, r)
	if !ok {
		return
	}

	result, err := h.service.SearchBlueprints(r.Context(), params)
	if err != nil {
		writeProviderError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetBlueprint handles GET /api/v1/blueprints/{providerID}/{blueprintID}
// @Summary Get blueprint details
// @Description Returns one blueprint from one provider, normalized to the shared model
// @Tags blueprints
// @Produce json
// @Param providerID path string true "Provider id"
// @Param blueprintID path string true "Provider-side blueprint id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/blueprints/{providerID}/{blueprintID} [get]
func (h *BlueprintHandler) GetBlueprint(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	blueprintID := chi.URLParam(r, "blueprintID")
	if blueprintID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "blueprint id is required"},
		})
		return
	}

	bp, err := h.service.GetBlueprintDetails(r.Context(), providerID, blueprintID)
	if err != nil {
		writeProviderError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: bp})
}

// ValidateBlueprint handles POST /api/v1/blueprints/{providerID}/validate
// @Summary Validate a blueprint shape
// @Description Runs the provider's local shape validation without calling the provider API
// @Tags blueprints
// @Accept json
// @Produce json
// @Param providerID path string true "Provider id"
// @Param request body domain.Blueprint true "Blueprint to validate"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/blueprints/{providerID}/validate [post]
func (h *BlueprintHandler) ValidateBlueprint(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var bp domain.Blueprint
	if err := json.NewDecoder(r.Body).Decode(&bp); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	result, err := h.service.ValidateBlueprint(r.Context(), providerID, &bp)
	if err != nil {
		writeProviderError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// parseSearchParams builds SearchParams from the query string. On a bad
// parameter it writes the 400 response itself and returns ok=false.
func parseSearchParams(w http.ResponseWriter, r *http.Request) (domain.SearchParams, bool) {
	q := r.URL.Query()
	params := domain.SearchParams{
		Query:      q.Get("query"),
		Category:   q.Get("category"),
		ProviderID: q.Get("provider"),
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid positive integer"},
			})
			return domain.SearchParams{}, false
		}
		params.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "limit must be a valid integer between 1 and 100"},
			})
			return domain.SearchParams{}, false
		}
		params.Limit = limit
	}
	if v := q.Get("tags"); v != "" {
		params.Tags = splitList(v)
	}
	if v := q.Get("techniques"); v != "" {
		params.Techniques = splitList(v)
	}
	if v := q.Get("in_stock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "in_stock must be true or false"},
			})
			return domain.SearchParams{}, false
		}
		params.InStock = &inStock
	}

	var priceRange domain.PriceRange
	havePrice := false
	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil || price < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must be a valid non-negative number"},
			})
			return domain.SearchParams{}, false
		}
		priceRange.Min = price
		havePrice = true
	}
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil || price < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "max_price must be a valid non-negative number"},
			})
			return domain.SearchParams{}, false
		}
		priceRange.Max = price
		havePrice = true
	}
	if havePrice {
		if priceRange.Max > 0 && priceRange.Min > priceRange.Max {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must not exceed max_price"},
			})
			return domain.SearchParams{}, false
		}
		params.PriceRange = &priceRange
	}

	if v := q.Get("sort_by"); v != "" {
		if v != domain.SortByName && v != domain.SortByPrice && v != domain.SortByUpdatedAt {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "sort_by must be one of: name, price, updated_at"},
			})
			return domain.SearchParams{}, false
		}
		params.SortBy = v
	}
	if v := q.Get("sort_order"); v != "" {
		if v != domain.SortAsc && v != domain.SortDesc {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "sort_order must be asc or desc"},
			})
			return domain.SearchParams{}, false
		}
		params.SortOrder = v
	}

	return params, true
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
