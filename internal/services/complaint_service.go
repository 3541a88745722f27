package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"terraUrbBack/internal/lifecycle"
	"terraUrbBack/internal/models"
)

// ComplaintStore is the persistence surface the complaint service needs.
// Satisfied by repositories.ComplaintRepository.
type ComplaintStore interface {
	Create(ctx context.Context, c models.Complaint) (models.Complaint, error)
	GetByID(ctx context.Context, id int) (models.Complaint, error)
	GetAll(ctx context.Context) ([]models.Complaint, error)
	UpdateContent(ctx context.Context, c models.Complaint) error
	UpdateImages(ctx context.Context, id int, images []string) error
	UpdateStatus(ctx context.Context, complaintID int, newStatus string, changedBy int) error
	GetHistory(ctx context.Context, complaintID int) ([]models.ComplaintLog, error)
	Delete(ctx context.Context, id int) error
	OwnerID(ctx context.Context, id int) (int, error)
}

// ComplaintTagStore is the slice of the tag repository the complaint service
// uses to attach tags at creation and load them for responses.
type ComplaintTagStore interface {
	SetTags(ctx context.Context, complaintID int, tagIDs []int) error
	GetByComplaintID(ctx context.Context, complaintID int) ([]models.Tag, error)
}

// ComplaintCommentStore loads comments for complaint detail responses.
type ComplaintCommentStore interface {
	GetByComplaintID(ctx context.Context, complaintID int) ([]models.Comment, error)
}

// ActivityRecorder appends audit-trail entries. Failures are logged, never
// propagated: best-effort logging must not abort the primary operation.
type ActivityRecorder interface {
	Insert(ctx context.Context, l models.ActivityLog) error
}

type ComplaintService struct {
	ComplaintRepo ComplaintStore
	TagRepo       ComplaintTagStore
	CommentRepo   ComplaintCommentStore
	ActivityRepo  ActivityRecorder
}

func (s *ComplaintService) CreateComplaint(ctx context.Context, actor models.Actor, req models.CreateComplaintRequest) (models.Complaint, error) {
	if err := validateComplaintInput(req.Title, req.Description, req.Location, req.Polygon); err != nil {
		return models.Complaint{}, err
	}

	complaint := models.Complaint{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Polygon:     req.Polygon,
		Status:      lifecycle.Initial(),
		UserID:      actor.ID,
	}

	created, err := s.ComplaintRepo.Create(ctx, complaint)
	if err != nil {
		return models.Complaint{}, err
	}

	if len(req.TagIDs) > 0 {
		if tagErr := s.TagRepo.SetTags(ctx, created.ID, dedupeIDs(req.TagIDs)); tagErr != nil {
			// The complaint row is already in; take it back out so a bad
			// tag id does not leave an orphaned tag-less complaint behind.
			if delErr := s.ComplaintRepo.Delete(ctx, created.ID); delErr != nil {
				log.Printf("failed to remove complaint %d after tag failure: %v", created.ID, delErr)
			}
			return models.Complaint{}, translateTagAssociationError(tagErr)
		}
	}

	s.logActivity(ctx, actor.ID, "complaint_created", fmt.Sprintf("complaint %d", created.ID))
	return s.GetComplaint(ctx, created.ID)
}

// ChangeStatus moves a complaint through its lifecycle. Only admins and city
// hall staff may do this; the owner manages content, never status.
func (s *ComplaintService) ChangeStatus(ctx context.Context, actor models.Actor, complaintID int, newStatus string) (models.Complaint, error) {
	if !actor.IsStaff() {
		return models.Complaint{}, models.ErrPermissionDenied
	}
	if !lifecycle.IsValid(newStatus) {
		return models.Complaint{}, models.Validationf("invalid status %q", newStatus)
	}

	current, err := s.ComplaintRepo.GetByID(ctx, complaintID)
	if err != nil {
		return models.Complaint{}, err
	}
	if !lifecycle.CanTransition(current.Status, newStatus) {
		return models.Complaint{}, models.Validationf("cannot change status from %q to %q", current.Status, newStatus)
	}

	if err := s.ComplaintRepo.UpdateStatus(ctx, complaintID, newStatus, actor.ID); err != nil {
		return models.Complaint{}, err
	}

	s.logActivity(ctx, actor.ID, "complaint_status_changed", fmt.Sprintf("complaint %d -> %s", complaintID, newStatus))
	return s.GetComplaint(ctx, complaintID)
}

// GetComplaint returns the complaint with its tags, status history and
// comments attached.
func (s *ComplaintService) GetComplaint(ctx context.Context, id int) (models.Complaint, error) {
	complaint, err := s.ComplaintRepo.GetByID(ctx, id)
	if err != nil {
		return models.Complaint{}, err
	}
	if complaint.Tags, err = s.TagRepo.GetByComplaintID(ctx, id); err != nil {
		return models.Complaint{}, err
	}
	if complaint.Logs, err = s.ComplaintRepo.GetHistory(ctx, id); err != nil {
		return models.Complaint{}, err
	}
	if complaint.Comments, err = s.CommentRepo.GetByComplaintID(ctx, id); err != nil {
		return models.Complaint{}, err
	}
	return complaint, nil
}

func (s *ComplaintService) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	complaints, err := s.ComplaintRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range complaints {
		if complaints[i].Tags, err = s.TagRepo.GetByComplaintID(ctx, complaints[i].ID); err != nil {
			return nil, err
		}
	}
	return complaints, nil
}

func (s *ComplaintService) UpdateComplaint(ctx context.Context, actor models.Actor, id int, req models.UpdateComplaintRequest) (models.Complaint, error) {
	ownerID, err := s.ComplaintRepo.OwnerID(ctx, id)
	if err != nil {
		return models.Complaint{}, err
	}
	if ownerID != actor.ID && !actor.IsAdmin() {
		return models.Complaint{}, models.ErrPermissionDenied
	}
	if err := validateComplaintInput(req.Title, req.Description, req.Location, req.Polygon); err != nil {
		return models.Complaint{}, err
	}

	complaint := models.Complaint{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Polygon:     req.Polygon,
	}
	if err := s.ComplaintRepo.UpdateContent(ctx, complaint); err != nil {
		return models.Complaint{}, err
	}
	return s.GetComplaint(ctx, id)
}

// DeleteComplaint removes the complaint and returns the image URLs it carried
// so the caller can clean up the stored objects.
func (s *ComplaintService) DeleteComplaint(ctx context.Context, actor models.Actor, id int) ([]string, error) {
	complaint, err := s.ComplaintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.UserID != actor.ID && !actor.IsAdmin() {
		return nil, models.ErrPermissionDenied
	}
	if err := s.ComplaintRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor.ID, "complaint_deleted", fmt.Sprintf("complaint %d", id))
	return complaint.Images, nil
}

func (s *ComplaintService) GetHistory(ctx context.Context, complaintID int) ([]models.ComplaintLog, error) {
	if _, err := s.ComplaintRepo.OwnerID(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.ComplaintRepo.GetHistory(ctx, complaintID)
}

// AttachImages appends uploaded image URLs to the complaint. Owner only.
func (s *ComplaintService) AttachImages(ctx context.Context, actor models.Actor, id int, urls []string) (models.Complaint, error) {
	complaint, err := s.ComplaintRepo.GetByID(ctx, id)
	if err != nil {
		return models.Complaint{}, err
	}
	if complaint.UserID != actor.ID {
		return models.Complaint{}, models.ErrPermissionDenied
	}
	if err := s.ComplaintRepo.UpdateImages(ctx, id, append(complaint.Images, urls...)); err != nil {
		return models.Complaint{}, err
	}
	return s.GetComplaint(ctx, id)
}

func (s *ComplaintService) logActivity(ctx context.Context, userID int, action, details string) {
	if s.ActivityRepo == nil {
		return
	}
	if err := s.ActivityRepo.Insert(ctx, models.ActivityLog{UserID: userID, Action: action, Details: details}); err != nil {
		log.Printf("activity log failed for %s: %v", action, err)
	}
}

// validateComplaintInput checks the citizen-supplied fields. The polygon is
// required on the write path and must outline an area, so three points is the
// floor.
func validateComplaintInput(title, description, location string, polygon []models.Coordinate) error {
	if strings.TrimSpace(title) == "" {
		return models.Validationf("title is required")
	}
	if strings.TrimSpace(description) == "" {
		return models.Validationf("description is required")
	}
	if strings.TrimSpace(location) == "" {
		return models.Validationf("location is required")
	}
	if len(polygon) < 3 {
		return models.Validationf("polygon must contain at least 3 coordinates")
	}
	for _, p := range polygon {
		if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			return models.Validationf("polygon coordinate out of range: lat=%.6f lng=%.6f", p.Lat, p.Lng)
		}
	}
	return nil
}

// dedupeIDs removes duplicates while preserving first-seen order.
func dedupeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
