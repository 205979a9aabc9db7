package server

import (
	"context"
	"errors"

	"github.com/muralmadness/hunt/internal/hunt"
)

// ErrNotFound means the team id is unknown.
var ErrNotFound = errors.New("not found")

// ErrNameTaken means another team already uses the requested name.
var ErrNameTaken = errors.New("team name already taken")

// ErrVersionConflict means the progress record changed between read and
// write. The gateway treats it as contention and re-evaluates.
var ErrVersionConflict = errors.New("version conflict")

// TeamSummary is one row of the team picker listing, in creation order.
type TeamSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LeaderboardEntry is one row of the score projection.
type LeaderboardEntry struct {
	TeamID              string `json:"teamId"`
	Name                string `json:"name"`
	TotalPoints         int    `json:"totalPoints"`
	LastClaimedLocation string `json:"lastClaimedLocation,omitempty"`
	LastClaimedPhotoURL string `json:"lastClaimedPhotoUrl,omitempty"`
}

// Store is the transactional progress store: one versioned progress document
// per team plus an append-only submission log.
type Store interface {
	// CreateTeam inserts a new progress record at version 1.
	CreateTeam(ctx context.Context, p hunt.Progress) error

	// GetTeam returns the record and the version it was read at.
	GetTeam(ctx context.Context, teamID string) (hunt.Progress, int64, error)

	// UpdateTeam writes the next record and appends subs in one transaction,
	// conditional on the stored version still being prevVersion. Returns
	// ErrVersionConflict when the condition fails; nothing is written then.
	UpdateTeam(ctx context.Context, p hunt.Progress, prevVersion int64, subs []hunt.Submission) error

	ListTeams(ctx context.Context) ([]TeamSummary, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	ListSubmissions(ctx context.Context, teamID string) ([]hunt.Submission, error)
}
