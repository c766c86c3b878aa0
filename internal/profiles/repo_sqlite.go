package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepo implements Repo on a local SQLite file.
type SQLiteRepo struct {
	DB *sql.DB
}

// Get returns the user's profile.
func (r *SQLiteRepo) Get(ctx context.Context, userID string) (Profile, error) {
	var payload, updatedAt string
	err := r.DB.QueryRowContext(ctx,
		`SELECT payload, updated_at FROM profiles WHERE user_id = ?`, userID,
	).Scan(&payload, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	var p Profile
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile payload: %w", err)
	}
	p.UserID = userID
	if p.UpdatedAt, err = time.Parse(sqliteTime, updatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Put upserts the user's profile.
func (r *SQLiteRepo) Put(ctx context.Context, p Profile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile payload: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO profiles (user_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		p.UserID, string(payload), p.UpdatedAt.UTC().Format(sqliteTime),
	)
	return err
}

var _ Repo = (*SQLiteRepo)(nil)
