package handlers

import (
	"net/http"

	"photorium/internal/startup"
)

// HealthCheck reports liveness and build information.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "ok",
		"version": startup.Version,
	})
}
