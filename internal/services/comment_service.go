package services

import (
	"context"
	"strings"

	"terraUrbBack/internal/models"
	"terraUrbBack/internal/repositories"
)

type CommentService struct {
	CommentRepo   *repositories.CommentRepository
	ComplaintRepo *repositories.ComplaintRepository
}

func (s *CommentService) CreateComment(ctx context.Context, actor models.Actor, complaintID int, content string) (models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return models.Comment{}, models.Validationf("content is required")
	}
	exists, err := s.ComplaintRepo.Exists(ctx, complaintID)
	if err != nil {
		return models.Comment{}, err
	}
	if !exists {
		return models.Comment{}, models.ErrComplaintNotFound
	}
	return s.CommentRepo.Create(ctx, models.Comment{
		ComplaintID: complaintID,
		UserID:      actor.ID,
		Content:     strings.TrimSpace(content),
	})
}

func (s *CommentService) GetCommentsByComplaint(ctx context.Context, complaintID int) ([]models.Comment, error) {
	return s.CommentRepo.GetByComplaintID(ctx, complaintID)
}

// UpdateComment edits comment text. Author or admin only.
func (s *CommentService) UpdateComment(ctx context.Context, actor models.Actor, id int, content string) (models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return models.Comment{}, models.Validationf("content is required")
	}
	comment, err := s.CommentRepo.GetByID(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}
	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return models.Comment{}, models.ErrPermissionDenied
	}
	if err := s.CommentRepo.Update(ctx, id, strings.TrimSpace(content)); err != nil {
		return models.Comment{}, err
	}
	return s.CommentRepo.GetByID(ctx, id)
}

func (s *CommentService) DeleteComment(ctx context.Context, actor models.Actor, id int) error {
	comment, err := s.CommentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return models.ErrPermissionDenied
	}
	return s.CommentRepo.Delete(ctx, id)
}
