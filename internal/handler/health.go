package handler

import (
	"net/http"

	"github.com/clawhouse/platform/internal/ledger"
)

// HealthHandler reports process liveness. Unhealthy means the ledger's
// journal directory stopped accepting writes, which is fatal for every
// chip-moving endpoint.
func HealthHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := led.Healthy(); err != nil {
			RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
