package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"terraUrbBack/internal/models"
)

type VerificationCodeRepository struct {
	DB *sql.DB
}

// Create stores a fresh code for the user and purpose, replacing any older
// one so only the most recent code is ever valid.
func (r *VerificationCodeRepository) Create(ctx context.Context, c models.VerificationCode) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM verification_codes WHERE user_id = ? AND purpose = ?`, c.UserID, c.Purpose); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
        INSERT INTO verification_codes (user_id, code, purpose, expires_at, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, c.UserID, c.Code, c.Purpose, c.ExpiresAt, time.Now()); err != nil {
		return err
	}

	return tx.Commit()
}

// Check validates a code without consuming it.
func (r *VerificationCodeRepository) Check(ctx context.Context, userID int, purpose, code string) error {
	var expiresAt time.Time
	err := r.DB.QueryRowContext(ctx, `
        SELECT expires_at FROM verification_codes
        WHERE user_id = ? AND purpose = ? AND code = ?
    `, userID, purpose, code).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrCodeInvalid
	}
	if err != nil {
		return err
	}
	if expiresAt.Before(time.Now()) {
		return models.ErrCodeInvalid
	}
	return nil
}

// Consume validates the code and deletes it in one transaction so it cannot
// be replayed.
func (r *VerificationCodeRepository) Consume(ctx context.Context, userID int, purpose, code string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var expiresAt time.Time
	err = tx.QueryRowContext(ctx, `
        SELECT expires_at FROM verification_codes
        WHERE user_id = ? AND purpose = ? AND code = ?
        FOR UPDATE
    `, userID, purpose, code).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = models.ErrCodeInvalid
		return err
	}
	if err != nil {
		return err
	}
	if expiresAt.Before(time.Now()) {
		err = models.ErrCodeInvalid
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM verification_codes WHERE user_id = ? AND purpose = ?`, userID, purpose); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteExpired removes stale codes. Called by the background cleaner.
func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM verification_codes WHERE expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
