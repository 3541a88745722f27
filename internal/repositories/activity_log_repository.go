package repositories

import (
	"context"
	"database/sql"
	"time"

	"terraUrbBack/internal/models"
)

type ActivityLogRepository struct {
	DB *sql.DB
}

func (r *ActivityLogRepository) Insert(ctx context.Context, l models.ActivityLog) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO activity_logs (user_id, action, details, created_at)
        VALUES (?, ?, ?, ?)
    `, l.UserID, l.Action, l.Details, time.Now())
	return err
}

func (r *ActivityLogRepository) GetRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, user_id, action, details, created_at
        FROM activity_logs
        ORDER BY created_at DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
