package resumes

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resume-editor/resume/model"
)

// PGRepo implements Repo using Postgres. The document body lives in a JSONB
// payload column; id, title, job and timestamps are also stored as columns.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, userID string, doc model.Document) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    title,
    job_id,
    payload,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	payload, err := encodePayload(doc)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		userID,
		doc.Title,
		nullableJobID(doc.JobID),
		payload,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a resume by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (model.Document, error) {
	const query = `
SELECT id, title, job_id, payload, created_at, updated_at
FROM resumes
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	var (
		docID     string
		title     string
		jobID     sql.NullString
		payload   []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := r.DB.QueryRowContext(ctx, query, userID, id).Scan(
		&docID,
		&title,
		&jobID,
		&payload,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, ErrNotFound
		}
		return model.Document{}, err
	}
	return decodePayload(payload, docID, title, jobID, createdAt, updatedAt)
}

// ListByUser returns resumes for a user, most recently updated first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	limit, offset = clampPage(limit, offset)
	const query = `
SELECT id, title, job_id, created_at, updated_at
FROM resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY updated_at DESC, id
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		s := Summary{UserID: userID}
		var jobID sql.NullString
		if err := rows.Scan(&s.ID, &s.Title, &jobID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if jobID.Valid {
			v := jobID.String
			s.JobID = &v
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the stored document.
func (r *PGRepo) Update(ctx context.Context, userID string, doc model.Document) error {
	const query = `
UPDATE resumes
SET title = $3,
    job_id = $4,
    payload = $5,
    updated_at = $6
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`

	payload, err := encodePayload(doc)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, userID, doc.ID, doc.Title, nullableJobID(doc.JobID), payload, doc.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateTitle renames a resume without rewriting its payload.
func (r *PGRepo) UpdateTitle(ctx context.Context, userID, id, title string, updatedAt time.Time) error {
	const query = `
UPDATE resumes
SET title = $3,
    updated_at = $4
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userID, id, title, updatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete soft-deletes a resume.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `
UPDATE resumes
SET deleted_at = NOW()
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
