package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"terraUrbBack/internal/models"
	"terraUrbBack/internal/services"
	"terraUrbBack/utils"
)

const maxImageUploadBytes = 10 << 20

type ComplaintHandler struct {
	Service *services.ComplaintService
}

func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	complaint, err := h.Service.CreateComplaint(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, complaint)
}

func (h *ComplaintHandler) GetComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.Service.ListComplaints(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, complaints)
}

func (h *ComplaintHandler) GetComplaintByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	complaint, err := h.Service.GetComplaint(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, complaint)
}

func (h *ComplaintHandler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var req models.UpdateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	complaint, err := h.Service.UpdateComplaint(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, complaint)
}

func (h *ComplaintHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var req models.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	complaint, err := h.Service.ChangeStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, complaint)
}

func (h *ComplaintHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	history, err := h.Service.GetHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *ComplaintHandler) DeleteComplaint(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	images, err := h.Service.DeleteComplaint(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	// The database row is gone; leftover bucket objects only cost storage,
	// so removal failures are logged and the delete still succeeds.
	for _, imageURL := range images {
		if err := utils.DeleteFileFromS3(path.Base(imageURL), "complaints"); err != nil {
			log.Printf("failed to delete image %s: %v", imageURL, err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImages accepts a multipart form with one or more files under "images",
// stores them in the bucket and appends the resulting URLs to the complaint.
func (h *ComplaintHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		http.Error(w, "No images provided", http.StatusBadRequest)
		return
	}

	var urls []string
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "Failed to read upload", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "Failed to read upload", http.StatusBadRequest)
			return
		}
		fileName := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(header.Filename))
		url, err := utils.UploadFileToS3(data, fileName, "complaints", header.Header.Get("Content-Type"))
		if err != nil {
			http.Error(w, "Failed to store image", http.StatusInternalServerError)
			return
		}
		urls = append(urls, url)
	}

	complaint, err := h.Service.AttachImages(r.Context(), actor, id, urls)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, complaint)
}
