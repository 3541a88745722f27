package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"terraUrbBack/internal/models"
)

// ReportStore is the persistence surface the report service needs. Satisfied
// by repositories.ReportRepository.
type ReportStore interface {
	Create(ctx context.Context, report models.Report) (models.Report, error)
	GetByID(ctx context.Context, id int) (models.Report, error)
	GetAll(ctx context.Context) ([]models.Report, error)
	Resolve(ctx context.Context, id int, decision, note string, resolvedBy int) (models.Report, error)
	Delete(ctx context.Context, id int) error
}

// TargetStore resolves one kind of reportable content. The complaint and
// comment repositories both satisfy it, which keeps the weak (kind, id)
// reference honest: every lookup goes through an explicit per-kind store
// instead of a constraint-free join.
type TargetStore interface {
	OwnerID(ctx context.Context, id int) (int, error)
	GetSnapshot(ctx context.Context, id int) (models.ReportTarget, error)
	Delete(ctx context.Context, id int) error
}

type ReportService struct {
	ReportRepo    ReportStore
	ComplaintRepo TargetStore
	CommentRepo   TargetStore
	ActivityRepo  ActivityRecorder
}

func (s *ReportService) targetStore(reportType string) (TargetStore, error) {
	switch reportType {
	case models.ReportTypeComplaint:
		return s.ComplaintRepo, nil
	case models.ReportTypeComment:
		return s.CommentRepo, nil
	default:
		return nil, models.Validationf("invalid report type %q", reportType)
	}
}

// SubmitReport files an abuse report against a complaint or a comment.
// Reporting your own content is rejected, as is reporting the same target
// twice.
func (s *ReportService) SubmitReport(ctx context.Context, actor models.Actor, req models.SubmitReportRequest) (models.Report, error) {
	store, err := s.targetStore(req.Type)
	if err != nil {
		return models.Report{}, err
	}
	if strings.TrimSpace(req.Reason) == "" {
		return models.Report{}, models.Validationf("reason is required")
	}

	ownerID, err := store.OwnerID(ctx, req.TargetID)
	if err != nil {
		return models.Report{}, err
	}
	if ownerID == actor.ID {
		return models.Report{}, models.Validationf("cannot report your own content")
	}

	report, err := s.ReportRepo.Create(ctx, models.Report{
		Type:     req.Type,
		TargetID: req.TargetID,
		Reason:   strings.TrimSpace(req.Reason),
		UserID:   actor.ID,
	})
	if err != nil {
		return models.Report{}, err
	}

	s.logActivity(ctx, actor.ID, "report_submitted", fmt.Sprintf("%s %d", req.Type, req.TargetID))
	return report, nil
}

// ListReports returns every report for admin triage, each enriched with a
// snapshot of the reported content. A target deleted since the report was
// filed just leaves the snapshot empty; one missing row must not fail the
// whole listing.
func (s *ReportService) ListReports(ctx context.Context, actor models.Actor) ([]models.Report, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrPermissionDenied
	}

	reports, err := s.ReportRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		store, err := s.targetStore(reports[i].Type)
		if err != nil {
			continue
		}
		snapshot, err := store.GetSnapshot(ctx, reports[i].TargetID)
		if err != nil {
			if errors.Is(err, models.ErrComplaintNotFound) || errors.Is(err, models.ErrCommentNotFound) {
				continue
			}
			return nil, err
		}
		reports[i].Target = &snapshot
	}
	return reports, nil
}

// ResolveReport closes a pending report with a decision. Resolution does NOT
// remove the reported content; that is a separate, explicit moderation call
// so an admin can resolve without deleting.
func (s *ReportService) ResolveReport(ctx context.Context, actor models.Actor, reportID int, decision, note string) (models.Report, error) {
	if !actor.IsAdmin() {
		return models.Report{}, models.ErrPermissionDenied
	}
	if !models.IsValidDecision(decision) {
		return models.Report{}, models.Validationf("invalid decision %q", decision)
	}

	report, err := s.ReportRepo.Resolve(ctx, reportID, decision, note, actor.ID)
	if err != nil {
		return models.Report{}, err
	}

	s.logActivity(ctx, actor.ID, "report_resolved", fmt.Sprintf("report %d -> %s", reportID, decision))
	return report, nil
}

func (s *ReportService) DeleteReport(ctx context.Context, actor models.Actor, reportID int) error {
	if !actor.IsAdmin() {
		return models.ErrPermissionDenied
	}
	return s.ReportRepo.Delete(ctx, reportID)
}

// DeleteByModeration removes flagged content entirely. Cascades (comments,
// logs, tag links of a deleted complaint) are handled by the target store.
func (s *ReportService) DeleteByModeration(ctx context.Context, actor models.Actor, targetType string, targetID int) error {
	if !actor.IsAdmin() {
		return models.ErrPermissionDenied
	}
	store, err := s.targetStore(targetType)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, targetID); err != nil {
		return err
	}
	s.logActivity(ctx, actor.ID, "moderation_delete", fmt.Sprintf("%s %d", targetType, targetID))
	return nil
}

func (s *ReportService) logActivity(ctx context.Context, userID int, action, details string) {
	if s.ActivityRepo == nil {
		return
	}
	if err := s.ActivityRepo.Insert(ctx, models.ActivityLog{UserID: userID, Action: action, Details: details}); err != nil {
		log.Printf("activity log failed for %s: %v", action, err)
	}
}
