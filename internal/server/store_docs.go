package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muralmadness/hunt/internal/hunt"
)

// DocStore implements Store over SQLite, persisting each progress record as
// a JSONB document next to an integer version column. Writes are optimistic:
// an UPDATE keyed on the version the caller read either lands atomically or
// reports a conflict.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

func newID() string {
	return uuid.NewString()
}

func sqlTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *DocStore) CreateTeam(ctx context.Context, p hunt.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, version, created_at, data) VALUES (?, ?, 1, ?, jsonb(?))`,
		p.ID, p.Name, sqlTime(p.CreatedAt), string(data),
	)
	if err != nil && isUniqueViolation(err) {
		return ErrNameTaken
	}
	return err
}

func (s *DocStore) GetTeam(ctx context.Context, teamID string) (hunt.Progress, int64, error) {
	var (
		version int64
		data    string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, json(data) FROM teams WHERE id = ?`, teamID,
	).Scan(&version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return hunt.Progress{}, 0, ErrNotFound
	}
	if err != nil {
		return hunt.Progress{}, 0, err
	}

	var p hunt.Progress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return hunt.Progress{}, 0, err
	}
	return p, version, nil
}

func (s *DocStore) UpdateTeam(ctx context.Context, p hunt.Progress, prevVersion int64, subs []hunt.Submission) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE teams SET data = jsonb(?), version = version + 1 WHERE id = ? AND version = ?`,
		string(data), p.ID, prevVersion,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the record moved past prevVersion or the team is gone.
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM teams WHERE id = ?`, p.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrVersionConflict
	}

	for _, sub := range subs {
		sub.ID = newID()
		subData, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO submissions (id, team_id, created_at, data) VALUES (?, ?, ?, jsonb(?))`,
			sub.ID, sub.TeamID, sqlTime(sub.Timestamp), string(subData),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *DocStore) ListTeams(ctx context.Context) ([]TeamSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM teams ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []TeamSummary{}
	for rows.Next() {
		var t TeamSummary
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *DocStore) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	// Ties break by creation order, so concurrent point changes never make
	// equal-scored rows swap places.
	rows, err := s.db.QueryContext(ctx, `
		SELECT json(data) FROM teams
		ORDER BY CAST(json_extract(data, '$.totalPoints') AS INTEGER) DESC, created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p hunt.Progress
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, err
		}
		entries = append(entries, LeaderboardEntry{
			TeamID:              p.ID,
			Name:                p.Name,
			TotalPoints:         p.TotalPoints,
			LastClaimedLocation: p.LastClaimedLocation,
			LastClaimedPhotoURL: p.LastClaimedPhotoURL,
		})
	}
	return entries, rows.Err()
}

func (s *DocStore) ListSubmissions(ctx context.Context, teamID string) ([]hunt.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM submissions WHERE team_id = ? ORDER BY created_at DESC, id`,
		teamID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []hunt.Submission{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var sub hunt.Submission
		if err := json.Unmarshal([]byte(data), &sub); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func isUniqueViolation(err error) bool {
	// libSQL surfaces constraint failures as plain errors; the message is the
	// only signal available through database/sql.
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

var _ Store = (*DocStore)(nil)
