package handlers

import (
	"net/http"

	"terraUrbBack/internal/services"
)

type StatsHandler struct {
	Service *services.StatsService
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	stats, err := h.Service.GetStats(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	entries, err := h.Service.GetRecentActivity(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
