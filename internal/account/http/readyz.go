package http

import (
	"net/http"
	"time"

	"github.com/inkwell-hq/inkwell/internal/account/store"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
	"github.com/inkwell-hq/inkwell/pkg/jwtx"
)

// ReadyzHandler is the readiness probe. Checks database connectivity and
// that the signer has keys loaded.
func ReadyzHandler(st store.Store, keys *jwtx.KeySet) http.HandlerFunc {
	startTime := time.Now()

	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status: status,
			Uptime: time.Since(startTime).String(),
			Checks: checks,
		})
	}
}
