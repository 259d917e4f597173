// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/instock/internal/adapters/repository"
	service "github.com/okian/instock/internal/app"
	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/query"

	"github.com/google/uuid"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ItemsDependencies
	TalentsDependencies
	DataDependencies
	SnapshotsDependencies
	ReloadDependencies
}

// ItemsDependencies evaluates catalog queries.
type ItemsDependencies interface {
	Query(ctx context.Context, q query.Query) (service.Result, error)
}

// TalentsDependencies exposes talent lookup tables.
type TalentsDependencies interface {
	Talents(ctx context.Context) ([]string, error)
	Terms(ctx context.Context) (model.SearchTerms, error)
}

// DataDependencies serves the encoded artifact files.
type DataDependencies interface {
	Artifact(ctx context.Context, name string) ([]byte, error)
}

// SnapshotsDependencies exposes snapshot history.
type SnapshotsDependencies interface {
	Snapshots(ctx context.Context, n int) ([]repository.Summary, error)
	Snapshot(ctx context.Context, id uuid.UUID) (repository.Summary, error)
}

// Server wires HTTP routes for the catalog API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	itemsHandler     *ItemsHandler
	talentsHandler   *TalentsHandler
	snapshotsHandler *SnapshotsHandler
	reloadHandler    *ReloadHandler
	dataHandler      *DataHandler
}

// NewServer creates a new API server with all handlers. maxSnapshots bounds
// the limit accepted by the snapshots listing.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxSnapshots int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		itemsHandler:     NewItemsHandler(deps),
		talentsHandler:   NewTalentsHandler(deps),
		snapshotsHandler: NewSnapshotsHandler(deps, maxSnapshots),
		reloadHandler:    NewReloadHandler(deps),
		dataHandler:      NewDataHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/items", MetricsMiddleware(s.itemsHandler.HandleGetItems, "items"))
	mux.HandleFunc("/api/talents", MetricsMiddleware(s.talentsHandler.HandleGetTalents, "talents"))
	mux.HandleFunc("/api/terms", MetricsMiddleware(s.talentsHandler.HandleGetTerms, "terms"))
	mux.HandleFunc("/api/snapshots", MetricsMiddleware(s.snapshotsHandler.HandleListSnapshots, "snapshots"))
	mux.HandleFunc("/api/snapshots/{id}", MetricsMiddleware(s.snapshotsHandler.HandleGetSnapshot, "snapshot"))
	mux.HandleFunc("/api/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
	mux.HandleFunc("/data/{name}", MetricsMiddleware(s.dataHandler.HandleGetData, "data"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and store errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "not_loaded", opError(op, err))
	case errors.Is(err, service.ErrUnknownArtifact),
		errors.Is(err, service.ErrUnavailable),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", opError(op, err))
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", opError(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", opError(op, err))
	}
}
