package services

import (
	"context"
	"errors"
	"strings"

	"terraUrbBack/internal/models"
)

// TagStore is the persistence surface the tag service needs. Satisfied by
// repositories.TagRepository.
type TagStore interface {
	Create(ctx context.Context, name string) (models.Tag, error)
	Rename(ctx context.Context, id int, name string) (models.Tag, error)
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (models.Tag, error)
	GetAll(ctx context.Context) ([]models.Tag, error)
	GetByComplaintID(ctx context.Context, complaintID int) ([]models.Tag, error)
	SetTags(ctx context.Context, complaintID int, tagIDs []int) error
	AddTags(ctx context.Context, complaintID int, tagIDs []int) error
	RemoveTags(ctx context.Context, complaintID int, tagIDs []int) error
}

// ComplaintOwnerStore answers who owns a complaint, for association gates.
type ComplaintOwnerStore interface {
	OwnerID(ctx context.Context, id int) (int, error)
}

type TagService struct {
	TagRepo       TagStore
	ComplaintRepo ComplaintOwnerStore
}

// CreateTag registers a new category label. Admin only; names are stored
// lower-cased so uniqueness is case-insensitive.
func (s *TagService) CreateTag(ctx context.Context, actor models.Actor, name string) (models.Tag, error) {
	if !actor.IsAdmin() {
		return models.Tag{}, models.ErrPermissionDenied
	}
	if strings.TrimSpace(name) == "" {
		return models.Tag{}, models.Validationf("tag name is required")
	}
	return s.TagRepo.Create(ctx, name)
}

func (s *TagService) RenameTag(ctx context.Context, actor models.Actor, id int, name string) (models.Tag, error) {
	if !actor.IsAdmin() {
		return models.Tag{}, models.ErrPermissionDenied
	}
	if strings.TrimSpace(name) == "" {
		return models.Tag{}, models.Validationf("tag name is required")
	}
	return s.TagRepo.Rename(ctx, id, name)
}

// DeleteTag removes the tag and its associations. The complaints that carried
// it are untouched.
func (s *TagService) DeleteTag(ctx context.Context, actor models.Actor, id int) error {
	if !actor.IsAdmin() {
		return models.ErrPermissionDenied
	}
	return s.TagRepo.Delete(ctx, id)
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.TagRepo.GetAll(ctx)
}

// SetTags replaces the tag set of a complaint. The complaint owner and staff
// may edit associations; duplicate ids in the input collapse to one, so the
// call is idempotent.
func (s *TagService) SetTags(ctx context.Context, actor models.Actor, complaintID int, tagIDs []int) error {
	if err := s.checkAssociationAccess(ctx, actor, complaintID); err != nil {
		return err
	}
	return translateTagAssociationError(s.TagRepo.SetTags(ctx, complaintID, dedupeIDs(tagIDs)))
}

func (s *TagService) AddTags(ctx context.Context, actor models.Actor, complaintID int, tagIDs []int) error {
	if err := s.checkAssociationAccess(ctx, actor, complaintID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return models.Validationf("tag_ids is required")
	}
	return translateTagAssociationError(s.TagRepo.AddTags(ctx, complaintID, dedupeIDs(tagIDs)))
}

func (s *TagService) RemoveTags(ctx context.Context, actor models.Actor, complaintID int, tagIDs []int) error {
	if err := s.checkAssociationAccess(ctx, actor, complaintID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return models.Validationf("tag_ids is required")
	}
	return s.TagRepo.RemoveTags(ctx, complaintID, dedupeIDs(tagIDs))
}

// translateTagAssociationError rewrites an unknown tag id into input feedback:
// the ids come straight from the request body, so a miss is the client's
// mistake, not a missing resource.
func translateTagAssociationError(err error) error {
	if errors.Is(err, models.ErrTagNotFound) {
		return models.Validationf("unknown tag id")
	}
	return err
}

func (s *TagService) checkAssociationAccess(ctx context.Context, actor models.Actor, complaintID int) error {
	ownerID, err := s.ComplaintRepo.OwnerID(ctx, complaintID)
	if err != nil {
		return err
	}
	if ownerID != actor.ID && !actor.IsStaff() {
		return models.ErrPermissionDenied
	}
	return nil
}
