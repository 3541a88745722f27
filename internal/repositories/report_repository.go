package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"terraUrbBack/internal/models"
)

type ReportRepository struct {
	DB *sql.DB
}

// Create inserts an abuse report. A user may hold at most one report per
// (type, target) pair; the reports table carries a unique key on
// (type, target_id, user_id), so the second of two concurrent submissions
// fails the insert and surfaces as ErrDuplicateReport.
func (r *ReportRepository) Create(ctx context.Context, report models.Report) (models.Report, error) {
	report.Status = models.ReportStatusPending
	report.CreatedAt = time.Now()
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO reports (type, target_id, reason, status, user_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, report.Type, report.TargetID, report.Reason, report.Status, report.UserID, report.CreatedAt)
	if err != nil {
		if isDuplicateEntryError(err) {
			return models.Report{}, models.ErrDuplicateReport
		}
		return models.Report{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Report{}, err
	}
	report.ID = int(id)
	return report, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id int) (models.Report, error) {
	var report models.Report
	err := r.DB.QueryRowContext(ctx, `
        SELECT r.id, r.type, r.target_id, r.reason, r.status, r.user_id, u.nickname,
               r.admin_note, r.resolved_by, r.resolved_at, r.created_at
        FROM reports r
        JOIN users u ON u.id = r.user_id
        WHERE r.id = ?
    `, id).Scan(
		&report.ID, &report.Type, &report.TargetID, &report.Reason, &report.Status,
		&report.UserID, &report.ReporterNickname, &report.AdminNote, &report.ResolvedBy,
		&report.ResolvedAt, &report.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, models.ErrReportNotFound
	}
	if err != nil {
		return models.Report{}, err
	}
	return report, nil
}

func (r *ReportRepository) GetAll(ctx context.Context) ([]models.Report, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT r.id, r.type, r.target_id, r.reason, r.status, r.user_id, u.nickname,
               r.admin_note, r.resolved_by, r.resolved_at, r.created_at
        FROM reports r
        JOIN users u ON u.id = r.user_id
        ORDER BY r.created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(
			&report.ID, &report.Type, &report.TargetID, &report.Reason, &report.Status,
			&report.UserID, &report.ReporterNickname, &report.AdminNote, &report.ResolvedBy,
			&report.ResolvedAt, &report.CreatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Resolve marks a pending report resolved or dismissed. Both outcomes are
// terminal: the status is re-read under a row lock and a report that already
// left Pendente is rejected.
func (r *ReportRepository) Resolve(ctx context.Context, id int, decision string, note string, resolvedBy int) (models.Report, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Report{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	if err = tx.QueryRowContext(ctx, `SELECT status FROM reports WHERE id = ? FOR UPDATE`, id).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrReportNotFound
		}
		return models.Report{}, err
	}
	if current != models.ReportStatusPending {
		err = models.ErrReportResolved
		return models.Report{}, err
	}

	now := time.Now()
	if _, err = tx.ExecContext(ctx, `
        UPDATE reports SET status = ?, admin_note = ?, resolved_by = ?, resolved_at = ?
        WHERE id = ?
    `, decision, nullOrString(note), resolvedBy, now, id); err != nil {
		return models.Report{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Report{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *ReportRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE status = ?`, models.ReportStatusPending).Scan(&n)
	return n, err
}

func nullOrString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
