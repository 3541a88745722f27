package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"terraUrbBack/internal/models"
)

type TagRepository struct {
	DB *sql.DB
}

// Create inserts a tag. Names are stored lower-cased; the unique index on the
// name column turns a case-insensitive duplicate into ErrDuplicateTagName.
func (r *TagRepository) Create(ctx context.Context, name string) (models.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	res, err := r.DB.ExecContext(ctx, `INSERT INTO tags (name) VALUES (?)`, name)
	if err != nil {
		if isDuplicateEntryError(err) {
			return models.Tag{}, models.ErrDuplicateTagName
		}
		return models.Tag{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Tag{}, err
	}
	return models.Tag{ID: int(id), Name: name}, nil
}

func (r *TagRepository) Rename(ctx context.Context, id int, name string) (models.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	res, err := r.DB.ExecContext(ctx, `UPDATE tags SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		if isDuplicateEntryError(err) {
			return models.Tag{}, models.ErrDuplicateTagName
		}
		return models.Tag{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Tag{}, err
	}
	if affected == 0 {
		// RowsAffected is also zero when the name did not change; distinguish
		// a missing row from a no-op rename.
		exists, err := r.Exists(ctx, id)
		if err != nil {
			return models.Tag{}, err
		}
		if !exists {
			return models.Tag{}, models.ErrTagNotFound
		}
	}
	return models.Tag{ID: id, Name: name}, nil
}

// Delete removes the tag and its complaint associations. Complaints stay.
func (r *TagRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM complaint_tags WHERE tag_id = ?`, id); err != nil {
		return err
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if execErr != nil {
		err = execErr
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = models.ErrTagNotFound
		return err
	}

	return tx.Commit()
}

func (r *TagRepository) GetByID(ctx context.Context, id int) (models.Tag, error) {
	var t models.Tag
	err := r.DB.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE id = ?`, id).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, models.ErrTagNotFound
	}
	if err != nil {
		return models.Tag{}, err
	}
	return t, nil
}

func (r *TagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) GetByComplaintID(ctx context.Context, complaintID int) ([]models.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT t.id, t.name
        FROM tags t
        JOIN complaint_tags ct ON ct.tag_id = t.id
        WHERE ct.complaint_id = ?
        ORDER BY t.name ASC
    `, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tags WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// SetTags replaces the association set of a complaint with exactly tagIDs.
// Unknown tag ids abort the transaction; callers dedupe the input first.
func (r *TagRepository) SetTags(ctx context.Context, complaintID int, tagIDs []int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, tagID := range tagIDs {
		var exists bool
		if err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tags WHERE id = ?)`, tagID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			err = models.ErrTagNotFound
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM complaint_tags WHERE complaint_id = ?`, complaintID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO complaint_tags (complaint_id, tag_id) VALUES (?, ?)`, complaintID, tagID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AddTags associates tagIDs with the complaint, skipping pairs that already
// exist. Unknown tag ids fail the whole call.
func (r *TagRepository) AddTags(ctx context.Context, complaintID int, tagIDs []int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, tagID := range tagIDs {
		var exists bool
		if err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tags WHERE id = ?)`, tagID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			err = models.ErrTagNotFound
			return err
		}
		if _, err = tx.ExecContext(ctx, `INSERT IGNORE INTO complaint_tags (complaint_id, tag_id) VALUES (?, ?)`, complaintID, tagID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TagRepository) RemoveTags(ctx context.Context, complaintID int, tagIDs []int) error {
	for _, tagID := range tagIDs {
		if _, err := r.DB.ExecContext(ctx, `DELETE FROM complaint_tags WHERE complaint_id = ? AND tag_id = ?`, complaintID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// isDuplicateEntryError checks for a MySQL/MariaDB unique key violation so
// duplicate names surface as a clear conflict instead of a generic 500.
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
