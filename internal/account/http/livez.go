package http

import (
	"net/http"
	"time"

	"github.com/inkwell-hq/inkwell/pkg/httpx"
)

type healthResponse struct {
	Status string        `json:"status"`
	Uptime string        `json:"uptime"`
	Checks *healthChecks `json:"checks,omitempty"`
}

type healthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// LivezHandler is the liveness probe. Always 200 while the process runs.
func LivezHandler(startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status: "ok",
			Uptime: time.Since(startTime).String(),
		})
	}
}
