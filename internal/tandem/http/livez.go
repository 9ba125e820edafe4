package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving, with uptime and build version
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tandemsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, tandemsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
