package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres with a JSONB payload.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the user's profile.
func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT payload, updated_at
FROM profiles
WHERE user_id = $1`
	var (
		payload []byte
		p       Profile
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&payload, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	updatedAt := p.UpdatedAt
	if err := json.Unmarshal(payload, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile payload: %w", err)
	}
	p.UserID = userID
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}

// Put upserts the user's profile.
func (r *PGRepo) Put(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (user_id, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
SET payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at`
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile payload: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, p.UserID, string(payload), p.UpdatedAt)
	return err
}

var _ Repo = (*PGRepo)(nil)
