package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Pings the store. Returns 503 with status "degraded" while it is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tandemsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	tandemsdk.HealthResponse	"store unreachable"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &tandemsdk.HealthChecks{Database: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, tandemsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
