// src/handlers/health_handler.go
package handlers

import (
	"net/http"

	"github.com/LibertytechX/seeds-metrics-sub003/src/database"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
)

// HandleHealth reports process liveness and database reachability.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := database.DB.PingContext(r.Context()); err != nil {
		utils.SendJSONError(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	utils.SendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
