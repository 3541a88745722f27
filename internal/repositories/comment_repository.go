package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"terraUrbBack/internal/models"
)

type CommentRepository struct {
	DB *sql.DB
}

func (r *CommentRepository) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	c.CreatedAt = time.Now()
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO comments (complaint_id, user_id, content, created_at)
        VALUES (?, ?, ?, ?)
    `, c.ComplaintID, c.UserID, c.Content, c.CreatedAt)
	if err != nil {
		return models.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Comment{}, err
	}
	c.ID = int(id)
	return c, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (models.Comment, error) {
	var c models.Comment
	err := r.DB.QueryRowContext(ctx, `
        SELECT c.id, c.complaint_id, c.user_id, u.nickname, c.content, c.created_at, c.updated_at
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.id = ?
    `, id).Scan(&c.ID, &c.ComplaintID, &c.UserID, &c.AuthorNickname, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, models.ErrCommentNotFound
	}
	if err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (r *CommentRepository) GetByComplaintID(ctx context.Context, complaintID int) ([]models.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT c.id, c.complaint_id, c.user_id, u.nickname, c.content, c.created_at, c.updated_at
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.complaint_id = ?
        ORDER BY c.created_at ASC
    `, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ComplaintID, &c.UserID, &c.AuthorNickname, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) Update(ctx context.Context, id int, content string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`, content, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}

// GetSnapshot returns the display data used to enrich abuse reports.
func (r *CommentRepository) GetSnapshot(ctx context.Context, id int) (models.ReportTarget, error) {
	var t models.ReportTarget
	err := r.DB.QueryRowContext(ctx, `
        SELECT c.content, u.nickname
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.id = ?
    `, id).Scan(&t.Content, &t.AuthorNickname)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReportTarget{}, models.ErrCommentNotFound
	}
	if err != nil {
		return models.ReportTarget{}, err
	}
	return t, nil
}

// OwnerID returns the id of the comment author.
func (r *CommentRepository) OwnerID(ctx context.Context, id int) (int, error) {
	var ownerID int
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM comments WHERE id = ?`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrCommentNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

func (r *CommentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&n)
	return n, err
}
