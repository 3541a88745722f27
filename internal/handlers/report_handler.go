package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"terraUrbBack/internal/models"
	"terraUrbBack/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	report, err := h.Service.SubmitReport(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

func (h *ReportHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	reports, err := h.Service.ListReports(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var req models.ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	report, err := h.Service.ResolveReport(r.Context(), actor, id, req.Decision, req.AdminNote)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	if err := h.Service.DeleteReport(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteReportedContent hard-deletes the content a report points at. Separate
// from resolving the report itself.
func (h *ReportHandler) DeleteReportedContent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	targetType := r.URL.Query().Get(":type")
	targetID, _ := strconv.Atoi(r.URL.Query().Get(":target_id"))
	if err := h.Service.DeleteByModeration(r.Context(), actor, targetType, targetID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
