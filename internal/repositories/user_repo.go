package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"terraUrbBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.CreatedAt = time.Now()
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO users (nickname, email, password, role, verified, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, user.Nickname, user.Email, user.Password, user.Role, user.Verified, user.CreatedAt)
	if err != nil {
		return models.User{}, translateUserDuplicate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
        SELECT id, nickname, email, password, role, verified, created_at, updated_at
        FROM users
        WHERE id = ?
    `, id).Scan(&user.ID, &user.Nickname, &user.Email, &user.Password, &user.Role, &user.Verified, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, `
        SELECT id, nickname, email, password, role, verified, created_at, updated_at
        FROM users
        WHERE email = ?
    `, email).Scan(&user.ID, &user.Nickname, &user.Email, &user.Password, &user.Role, &user.Verified, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, nickname, email, role, verified, created_at, updated_at
        FROM users
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Nickname, &user.Email, &user.Role, &user.Verified, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE users SET nickname = ?, email = ?, updated_at = ? WHERE id = ?
    `, user.Nickname, user.Email, time.Now(), user.ID)
	if err != nil {
		return models.User{}, translateUserDuplicate(err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return models.User{}, err
	}
	return r.GetUserByID(ctx, user.ID)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int, role string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`, role, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrUserNotFound
		}
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hashedPassword string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`, hashedPassword, time.Now(), id)
	return err
}

func (r *UserRepository) MarkVerified(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET verified = TRUE, updated_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// DeleteUser removes the account and everything the user owns. Complaint
// children (logs, comments by others, tag links) go through subqueries before
// the complaints themselves so foreign keys never dangle mid-transaction.
func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	statements := []string{
		`DELETE FROM sessions WHERE user_id = ?`,
		`DELETE FROM verification_codes WHERE user_id = ?`,
		`DELETE FROM activity_logs WHERE user_id = ?`,
		`DELETE FROM reports WHERE user_id = ?`,
		`DELETE FROM comments WHERE complaint_id IN (SELECT id FROM complaints WHERE user_id = ?)`,
		`DELETE FROM complaint_logs WHERE complaint_id IN (SELECT id FROM complaints WHERE user_id = ?)`,
		`DELETE FROM complaint_tags WHERE complaint_id IN (SELECT id FROM complaints WHERE user_id = ?)`,
		`DELETE FROM complaints WHERE user_id = ?`,
		`DELETE FROM comments WHERE user_id = ?`,
	}
	for _, q := range statements {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if execErr != nil {
		err = execErr
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = models.ErrUserNotFound
		return err
	}

	return tx.Commit()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepository) exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// translateUserDuplicate maps a MySQL unique key violation on the users table
// to the matching model error, keyed by which unique index tripped.
func translateUserDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return err
	}
	if strings.Contains(mysqlErr.Message, "nickname") {
		return models.ErrDuplicateNickname
	}
	return models.ErrDuplicateEmail
}
