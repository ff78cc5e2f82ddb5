// src/handlers/metrics_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/LibertytechX/seeds-metrics-sub003/src/logger"
	"github.com/LibertytechX/seeds-metrics-sub003/src/services"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
)

type MetricsHandler struct {
	metricsService services.MetricsService
}

func NewMetricsHandler(metricsService services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

// HandleRecalculate kicks off a synchronous full-portfolio recalculation and
// snapshot rebuild. Only one run may be in flight at a time.
func (h *MetricsHandler) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.metricsService.RunFullRecalculation(r.Context())
	if errors.Is(err, services.ErrRecalculationInProgress) {
		utils.SendJSONError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		logger.ErrorFromContext(r.Context(), "full recalculation failed", "error", err)
		utils.SendJSONError(w, "recalculation failed", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}
