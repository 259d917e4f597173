package api

import (
	"context"
	"net/http"
)

// ReloadDependencies schedules catalog reloads.
type ReloadDependencies interface {
	ScheduleReload(ctx context.Context)
}

// ReloadHandler handles reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandleReload handles POST /api/reload. The reload runs after the debounce
// period, so the response only acknowledges the request.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	h.deps.ScheduleReload(r.Context())
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "scheduled"})
}
