package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/service"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/httputil"
)

// writeProviderError translates the provider error taxonomy into the
// standard response envelope. Upstream failures surface as 502/503 rather
// than 500: the caller's request was fine, the provider was not.
func writeProviderError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if errors.Is(err, service.ErrNotInitialized) {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "SERVICE_UNAVAILABLE", Message: "service is starting up, try again shortly"},
		})
		return
	}
	if errors.Is(err, service.ErrUnknownProvider) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNKNOWN_PROVIDER", Message: err.Error()},
		})
		return
	}

	var nfErr *domain.NotFoundError
	if errors.As(err, &nfErr) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: domain.UserMessage(err)},
		})
		return
	}

	var rlErr *domain.RateLimitError
	if errors.As(err, &rlErr) {
		if wait := time.Until(rlErr.ResetAt); wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		}
		httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "PROVIDER_RATE_LIMITED", Message: domain.UserMessage(err)},
		})
		return
	}

	var authErr *domain.AuthenticationError
	if errors.As(err, &authErr) {
		logger.ErrorContext(r.Context(), "provider authentication failed",
			slog.String("provider_id", authErr.ProviderID),
		)
		httputil.WriteJSON(w, http.StatusBadGateway, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "PROVIDER_AUTH_FAILED", Message: domain.UserMessage(err)},
		})
		return
	}

	var unavailErr *domain.ProviderUnavailableError
	if errors.As(err, &unavailErr) {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "PROVIDER_UNAVAILABLE", Message: domain.UserMessage(err)},
		})
		return
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "VALIDATION_ERROR", Message: valErr.Error()},
		})
		return
	}

	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		httputil.WriteJSON(w, http.StatusBadGateway, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "PROVIDER_UNREACHABLE", Message: domain.UserMessage(err)},
		})
		return
	}

	var apiErr *domain.ProviderAPIError
	if errors.As(err, &apiErr) {
		httputil.WriteJSON(w, http.StatusBadGateway, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "PROVIDER_ERROR", Message: domain.UserMessage(err)},
		})
		return
	}

	httputil.WriteError(w, r, err, logger)
}
