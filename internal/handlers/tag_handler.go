package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"terraUrbBack/internal/models"
	"terraUrbBack/internal/services"
)

type TagHandler struct {
	Service *services.TagService
}

func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	tag, err := h.Service.CreateTag(r.Context(), actor, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Service.ListTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) RenameTag(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var req models.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	tag, err := h.Service.RenameTag(r.Context(), actor, id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	if err := h.Service.DeleteTag(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TagHandler) SetComplaintTags(w http.ResponseWriter, r *http.Request) {
	h.mutateAssociations(w, r, h.Service.SetTags)
}

func (h *TagHandler) AddComplaintTags(w http.ResponseWriter, r *http.Request) {
	h.mutateAssociations(w, r, h.Service.AddTags)
}

func (h *TagHandler) RemoveComplaintTags(w http.ResponseWriter, r *http.Request) {
	h.mutateAssociations(w, r, h.Service.RemoveTags)
}

func (h *TagHandler) mutateAssociations(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor models.Actor, complaintID int, tagIDs []int) error) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	complaintID, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var req models.TagIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if err := op(r.Context(), actor, complaintID, req.TagIDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
