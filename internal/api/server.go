package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"FlowTally/internal/query"
)

// Handler holds the dependencies for API handlers.
type Handler struct {
	querier query.Querier
}

// NewRouter builds the API routes around a querier.
func NewRouter(querier query.Querier) *mux.Router {
	h := &Handler{querier: querier}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/tags", h.tagCountsHandler).Methods("GET")
	r.HandleFunc("/api/v1/combos", h.comboCountsHandler).Methods("GET")
	return r
}

// tagCountsHandler serves the tag count table from the latest run.
func (h *Handler) tagCountsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := h.querier.TagCounts(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query tag counts: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, counts)
}

// comboCountsHandler serves the tagged port/protocol combination table.
func (h *Handler) comboCountsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := h.querier.ComboCounts(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query combo counts: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, counts)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers already sent; nothing left to report to the client.
		return
	}
}
