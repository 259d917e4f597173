package api

import "net/http"

// TalentsHandler serves the talent picker and search term tables.
type TalentsHandler struct {
	deps TalentsDependencies
}

// NewTalentsHandler creates a new talents handler.
func NewTalentsHandler(deps TalentsDependencies) *TalentsHandler {
	return &TalentsHandler{deps: deps}
}

type talentsResponse struct {
	Talents []string `json:"talents"`
}

// HandleGetTalents handles GET /api/talents.
func (h *TalentsHandler) HandleGetTalents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_talents"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	talents, err := h.deps.Talents(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if talents == nil {
		talents = []string{}
	}
	writeJSON(w, http.StatusOK, talentsResponse{Talents: talents})
}

// HandleGetTerms handles GET /api/terms.
func (h *TalentsHandler) HandleGetTerms(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_terms"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	terms, err := h.deps.Terms(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}
