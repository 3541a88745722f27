package models

import "time"

// Report target kinds. The target is a weak reference (kind + id); existence
// is checked in code because complaints and comments live in different tables.
const (
	ReportTypeComplaint = "complaint"
	ReportTypeComment   = "comment"
)

// Report statuses. Pendente is the intake state; the other two are terminal.
const (
	ReportStatusPending   = "Pendente"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// IsValidReportType reports whether t names a reportable content kind.
func IsValidReportType(t string) bool {
	return t == ReportTypeComplaint || t == ReportTypeComment
}

// IsValidDecision reports whether d is a terminal report status.
func IsValidDecision(d string) bool {
	return d == ReportStatusResolved || d == ReportStatusDismissed
}

type Report struct {
	ID               int        `json:"id"`
	Type             string     `json:"type"`
	TargetID         int        `json:"target_id"`
	Reason           string     `json:"reason"`
	Status           string     `json:"status"`
	UserID           int        `json:"user_id"`
	ReporterNickname string     `json:"reporter_nickname,omitempty"`
	AdminNote        *string    `json:"admin_note,omitempty"`
	ResolvedBy       *int       `json:"resolved_by,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`

	// Target is a read-time snapshot of the reported content, attached for
	// admins. Nil when the content has since been deleted.
	Target *ReportTarget `json:"target,omitempty"`
}

// ReportTarget is the denormalized display data of the reported content.
type ReportTarget struct {
	Title          string `json:"title,omitempty"`
	Content        string `json:"content,omitempty"`
	AuthorNickname string `json:"author_nickname,omitempty"`
}

type SubmitReportRequest struct {
	Type     string `json:"type"`
	TargetID int    `json:"target_id"`
	Reason   string `json:"reason"`
}

type ResolveReportRequest struct {
	Decision  string `json:"decision"`
	AdminNote string `json:"admin_note"`
}
