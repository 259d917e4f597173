package api

import (
	"net/http"

	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/query"
)

// ItemsHandler handles catalog queries.
type ItemsHandler struct {
	deps ItemsDependencies
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps ItemsDependencies) *ItemsHandler {
	return &ItemsHandler{deps: deps}
}

type itemsResponse struct {
	Count   int         `json:"count"`
	Total   int         `json:"total"`
	BuiltAt string      `json:"builtAt"`
	Query   string      `json:"query"`
	Items   []model.Row `json:"items"`
}

// HandleGetItems handles GET /api/items. The query string uses the same
// parameters as the browser view; unknown or malformed values fall back to
// their defaults.
func (h *ItemsHandler) HandleGetItems(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_items"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := query.ParseValues(r.URL.Query())
	res, err := h.deps.Query(r.Context(), q)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	items := res.Items
	if items == nil {
		items = []model.Row{}
	}
	writeJSON(w, http.StatusOK, itemsResponse{
		Count:   len(items),
		Total:   res.Total,
		BuiltAt: res.BuiltAt,
		Query:   res.Query.Values().Encode(),
		Items:   items,
	})
}
