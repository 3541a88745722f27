package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"terraUrbBack/internal/lifecycle"
	"terraUrbBack/internal/models"
)

type ComplaintRepository struct {
	DB *sql.DB
}

// Create inserts a complaint together with its creation log entry in one
// transaction. The log row carries a NULL old status so the history always
// starts with the creation event.
func (r *ComplaintRepository) Create(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	polygonJSON, err := marshalPolygon(c.Polygon)
	if err != nil {
		return models.Complaint{}, err
	}
	imagesJSON, err := marshalImages(c.Images)
	if err != nil {
		return models.Complaint{}, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Complaint{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	c.CreatedAt = time.Now()
	res, execErr := tx.ExecContext(ctx, `
        INSERT INTO complaints (title, description, location, polygon, images, status, user_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, c.Title, c.Description, c.Location, polygonJSON, imagesJSON, c.Status, c.UserID, c.CreatedAt)
	if execErr != nil {
		err = execErr
		return models.Complaint{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Complaint{}, err
	}
	c.ID = int(id)

	if _, err = tx.ExecContext(ctx, `
        INSERT INTO complaint_logs (complaint_id, old_status, new_status, changed_by, created_at)
        VALUES (?, NULL, ?, ?, ?)
    `, c.ID, c.Status, c.UserID, c.CreatedAt); err != nil {
		return models.Complaint{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// UpdateStatus moves a complaint to a new status and appends the audit log
// entry in the same transaction. The current status is re-read under a row
// lock so concurrent changes cannot interleave and leave the history out of
// step with the final status; the transition is checked against that locked
// value.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, complaintID int, newStatus string, changedBy int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	if err = tx.QueryRowContext(ctx, `SELECT status FROM complaints WHERE id = ? FOR UPDATE`, complaintID).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrComplaintNotFound
		}
		return err
	}
	if !lifecycle.CanTransition(current, newStatus) {
		err = models.Validationf("cannot change status from %q to %q", current, newStatus)
		return err
	}

	now := time.Now()
	if _, err = tx.ExecContext(ctx, `UPDATE complaints SET status = ?, updated_at = ? WHERE id = ?`, newStatus, now, complaintID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
        INSERT INTO complaint_logs (complaint_id, old_status, new_status, changed_by, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, complaintID, current, newStatus, changedBy, now); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id int) (models.Complaint, error) {
	var c models.Complaint
	var polygonJSON, imagesJSON sql.NullString
	err := r.DB.QueryRowContext(ctx, `
        SELECT c.id, c.title, c.description, c.location, c.polygon, c.images, c.status,
               c.user_id, u.nickname, c.created_at, c.updated_at
        FROM complaints c
        JOIN users u ON u.id = c.user_id
        WHERE c.id = ?
    `, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.Location, &polygonJSON, &imagesJSON,
		&c.Status, &c.UserID, &c.AuthorNickname, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Complaint{}, models.ErrComplaintNotFound
	}
	if err != nil {
		return models.Complaint{}, err
	}
	if c.Polygon, err = unmarshalPolygon(polygonJSON); err != nil {
		return models.Complaint{}, err
	}
	if c.Images, err = unmarshalImages(imagesJSON); err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

func (r *ComplaintRepository) GetAll(ctx context.Context) ([]models.Complaint, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT c.id, c.title, c.description, c.location, c.polygon, c.images, c.status,
               c.user_id, u.nickname, c.created_at, c.updated_at
        FROM complaints c
        JOIN users u ON u.id = c.user_id
        ORDER BY c.created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		var c models.Complaint
		var polygonJSON, imagesJSON sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Location, &polygonJSON, &imagesJSON,
			&c.Status, &c.UserID, &c.AuthorNickname, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if c.Polygon, err = unmarshalPolygon(polygonJSON); err != nil {
			return nil, err
		}
		if c.Images, err = unmarshalImages(imagesJSON); err != nil {
			return nil, err
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

// UpdateContent rewrites the citizen-editable fields. Status is untouched.
func (r *ComplaintRepository) UpdateContent(ctx context.Context, c models.Complaint) error {
	polygonJSON, err := marshalPolygon(c.Polygon)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
        UPDATE complaints
        SET title = ?, description = ?, location = ?, polygon = ?, updated_at = ?
        WHERE id = ?
    `, c.Title, c.Description, c.Location, polygonJSON, time.Now(), c.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) UpdateImages(ctx context.Context, id int, images []string) error {
	imagesJSON, err := marshalImages(images)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `UPDATE complaints SET images = ?, updated_at = ? WHERE id = ?`, imagesJSON, time.Now(), id)
	return err
}

// GetHistory returns the full status history, creation entry first.
func (r *ComplaintRepository) GetHistory(ctx context.Context, complaintID int) ([]models.ComplaintLog, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT l.id, l.complaint_id, l.old_status, l.new_status, l.changed_by, u.nickname, l.created_at
        FROM complaint_logs l
        JOIN users u ON u.id = l.changed_by
        WHERE l.complaint_id = ?
        ORDER BY l.created_at ASC, l.id ASC
    `, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ComplaintLog
	for rows.Next() {
		var l models.ComplaintLog
		if err := rows.Scan(&l.ID, &l.ComplaintID, &l.OldStatus, &l.NewStatus, &l.ChangedBy, &l.ChangedByNickname, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Delete removes a complaint and everything hanging off it: comments, status
// logs and tag associations go in the same transaction.
func (r *ComplaintRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE complaint_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM complaint_logs WHERE complaint_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM complaint_tags WHERE complaint_id = ?`, id); err != nil {
		return err
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM complaints WHERE id = ?`, id)
	if execErr != nil {
		err = execErr
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = models.ErrComplaintNotFound
		return err
	}

	return tx.Commit()
}

func (r *ComplaintRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM complaints WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// GetSnapshot returns the display data used to enrich abuse reports.
func (r *ComplaintRepository) GetSnapshot(ctx context.Context, id int) (models.ReportTarget, error) {
	var t models.ReportTarget
	err := r.DB.QueryRowContext(ctx, `
        SELECT c.title, u.nickname
        FROM complaints c
        JOIN users u ON u.id = c.user_id
        WHERE c.id = ?
    `, id).Scan(&t.Title, &t.AuthorNickname)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReportTarget{}, models.ErrComplaintNotFound
	}
	if err != nil {
		return models.ReportTarget{}, err
	}
	return t, nil
}

// OwnerID returns the id of the user who filed the complaint.
func (r *ComplaintRepository) OwnerID(ctx context.Context, id int) (int, error) {
	var ownerID int
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM complaints WHERE id = ?`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrComplaintNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

func (r *ComplaintRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func marshalPolygon(polygon []models.Coordinate) (sql.NullString, error) {
	if len(polygon) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(polygon)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalPolygon(raw sql.NullString) ([]models.Coordinate, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var polygon []models.Coordinate
	if err := json.Unmarshal([]byte(raw.String), &polygon); err != nil {
		return nil, err
	}
	return polygon, nil
}

func marshalImages(images []string) (sql.NullString, error) {
	if len(images) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(images)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalImages(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var images []string
	if err := json.Unmarshal([]byte(raw.String), &images); err != nil {
		return nil, err
	}
	return images, nil
}
