package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

const defaultSnapshotLimit = 10

// SnapshotsHandler serves snapshot history.
type SnapshotsHandler struct {
	deps     SnapshotsDependencies
	maxLimit int
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(deps SnapshotsDependencies, maxLimit int) *SnapshotsHandler {
	return &SnapshotsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleListSnapshots handles GET /api/snapshots?limit=N requests.
func (h *SnapshotsHandler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_snapshots"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := defaultSnapshotLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", opError(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", opError(op, ErrBadRequest))
		return
	}
	list, err := h.deps.Snapshots(r.Context(), n)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGetSnapshot handles GET /api/snapshots/{id} requests.
func (h *SnapshotsHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_snapshot"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", opError(op, ErrBadRequest))
		return
	}
	sum, err := h.deps.Snapshot(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
