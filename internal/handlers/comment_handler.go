package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"terraUrbBack/internal/models"
	"terraUrbBack/internal/services"
)

type CommentHandler struct {
	Service *services.CommentService
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	complaintID, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	comment, err := h.Service.CreateComment(r.Context(), actor, complaintID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) GetCommentsByComplaint(w http.ResponseWriter, r *http.Request) {
	complaintID, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	comments, err := h.Service.GetCommentsByComplaint(r.Context(), complaintID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	comment, err := h.Service.UpdateComment(r.Context(), actor, id, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	if err := h.Service.DeleteComment(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
