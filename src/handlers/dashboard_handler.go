// src/handlers/dashboard_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/LibertytechX/seeds-metrics-sub003/src/logger"
	"github.com/LibertytechX/seeds-metrics-sub003/src/model"
	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
	"github.com/LibertytechX/seeds-metrics-sub003/src/services"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
)

type DashboardHandler struct {
	snapshotService services.SnapshotService
}

func NewDashboardHandler(snapshotService services.SnapshotService) *DashboardHandler {
	return &DashboardHandler{snapshotService: snapshotService}
}

// HandleGetOfficers serves the per-officer dashboard from the latest
// snapshot run.
func (h *DashboardHandler) HandleGetOfficers(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.snapshotService.GetOfficerDashboard(r.Context())
	if err != nil {
		logger.ErrorFromContext(r.Context(), "failed to load officer dashboard", "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if snapshots == nil {
		snapshots = []models.OfficerSnapshot{}
	}
	utils.SendJSON(w, snapshots, http.StatusOK)
}

// HandleGetPortfolio serves the portfolio rollup from the latest snapshot
// run. A 404 means no recalculation has been run yet.
func (h *DashboardHandler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshotService.GetPortfolioDashboard(r.Context())
	if errors.Is(err, model.ErrNoSnapshot) {
		utils.SendJSONError(w, "no calculation run available yet", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.ErrorFromContext(r.Context(), "failed to load portfolio dashboard", "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, snapshot, http.StatusOK)
}
