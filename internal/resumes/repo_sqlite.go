package resumes

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resume-editor/resume/model"
)

// sqliteTime keeps timestamps lexically sortable.
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepo implements Repo on a local SQLite file.
type SQLiteRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *SQLiteRepo) Create(ctx context.Context, userID string, doc model.Document) error {
	payload, err := encodePayload(doc)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, title, job_id, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, userID, doc.Title, nullableJobID(doc.JobID), payload,
		formatSQLiteTime(doc.CreatedAt), formatSQLiteTime(doc.UpdatedAt),
	)
	return err
}

// GetByID fetches a resume by ID for a user.
func (r *SQLiteRepo) GetByID(ctx context.Context, userID, id string) (model.Document, error) {
	var (
		docID     string
		title     string
		jobID     sql.NullString
		payload   string
		createdAt string
		updatedAt string
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, job_id, payload, created_at, updated_at
		 FROM resumes WHERE user_id = ? AND id = ?`,
		userID, id,
	).Scan(&docID, &title, &jobID, &payload, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, ErrNotFound
		}
		return model.Document{}, err
	}
	created, err := parseSQLiteTime(createdAt)
	if err != nil {
		return model.Document{}, err
	}
	updated, err := parseSQLiteTime(updatedAt)
	if err != nil {
		return model.Document{}, err
	}
	return decodePayload([]byte(payload), docID, title, jobID, created, updated)
}

// ListByUser returns resumes for a user, most recently updated first.
func (r *SQLiteRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, job_id, created_at, updated_at
		 FROM resumes WHERE user_id = ?
		 ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		s := Summary{UserID: userID}
		var (
			jobID              sql.NullString
			createdAt, updated string
		)
		if err := rows.Scan(&s.ID, &s.Title, &jobID, &createdAt, &updated); err != nil {
			return nil, err
		}
		if jobID.Valid {
			v := jobID.String
			s.JobID = &v
		}
		if s.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
			return nil, err
		}
		if s.UpdatedAt, err = parseSQLiteTime(updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update replaces the stored document.
func (r *SQLiteRepo) Update(ctx context.Context, userID string, doc model.Document) error {
	payload, err := encodePayload(doc)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE resumes SET title = ?, job_id = ?, payload = ?, updated_at = ?
		 WHERE user_id = ? AND id = ?`,
		doc.Title, nullableJobID(doc.JobID), payload, formatSQLiteTime(doc.UpdatedAt), userID, doc.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateTitle renames a resume without rewriting its payload.
func (r *SQLiteRepo) UpdateTitle(ctx context.Context, userID, id, title string, updatedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE resumes SET title = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		title, formatSQLiteTime(updatedAt), userID, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a resume.
func (r *SQLiteRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTime)
}

func parseSQLiteTime(raw string) (time.Time, error) {
	return time.Parse(sqliteTime, raw)
}

var _ Repo = (*SQLiteRepo)(nil)
