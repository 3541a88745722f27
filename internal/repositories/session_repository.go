package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"terraUrbBack/internal/models"
)

type SessionRepository struct {
	DB *sql.DB
}

func (r *SessionRepository) Create(ctx context.Context, s models.Session) (models.Session, error) {
	s.CreatedAt = time.Now()
	s.LastUsedAt = s.CreatedAt
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO sessions (user_id, refresh_token, user_agent, device_name, ip, expires_at, last_used_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, s.UserID, s.RefreshToken, s.UserAgent, s.DeviceName, s.IP, s.ExpiresAt, s.LastUsedAt, s.CreatedAt)
	if err != nil {
		return models.Session{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Session{}, err
	}
	s.ID = int(id)
	return s, nil
}

func (r *SessionRepository) GetByRefreshToken(ctx context.Context, token string) (models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx, `
        SELECT id, user_id, refresh_token, user_agent, device_name, ip, expires_at, last_used_at, created_at
        FROM sessions
        WHERE refresh_token = ?
    `, token).Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.UserAgent, &s.DeviceName, &s.IP, &s.ExpiresAt, &s.LastUsedAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, models.ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	return s, nil
}

func (r *SessionRepository) GetByUserID(ctx context.Context, userID int) ([]models.Session, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, user_id, refresh_token, user_agent, device_name, ip, expires_at, last_used_at, created_at
        FROM sessions
        WHERE user_id = ?
        ORDER BY last_used_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.UserAgent, &s.DeviceName, &s.IP, &s.ExpiresAt, &s.LastUsedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Touch records that the session refreshed an access token.
func (r *SessionRepository) Touch(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE sessions SET last_used_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// Delete revokes one session. Scoped to the owner so a user cannot revoke
// another user's device by guessing ids.
func (r *SessionRepository) Delete(ctx context.Context, id, userID int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

// DeleteByUser revokes every session of a user, e.g. after a password reset.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func (r *SessionRepository) DeleteByRefreshToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token = ?`, token)
	return err
}

// DeleteExpired removes sessions past their expiry. Called by the background
// cleaner.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
