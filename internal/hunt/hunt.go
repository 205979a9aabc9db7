// Package hunt defines the core gameplay types and the team progress state
// machine. It has no I/O — transitions are pure functions over the progress
// record, and the only nondeterminism is an injected challenge picker.
package hunt

import "time"

// State is the team's position in the gameplay cycle.
type State string

const (
	// StateTraveling means the team has no active challenge and may start one.
	StateTraveling State = "traveling"
	// StateCompletingChallenge means a travel challenge is in flight.
	StateCompletingChallenge State = "completing_challenge"
	// StateClaimingLocation means a challenge gating a location claim is in flight.
	StateClaimingLocation State = "claiming_location"
)

// MaxTravelAttempts caps how many travel challenges a team may attempt
// between location claims.
const MaxTravelAttempts = 2

// ActiveChallenge is the single in-flight challenge gating the team's next
// action. LocationID is set iff the challenge gates a location claim.
type ActiveChallenge struct {
	ChallengeID      int  `json:"challengeId"`
	ForLocationClaim bool `json:"isForLocationClaim"`
	LocationID       *int `json:"locationId,omitempty"`
}

// Progress is the per-team gameplay record. One exists per team; it is
// mutated only through machine transitions committed by the gateway.
type Progress struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasscodeHash string    `json:"passcodeHash"`
	CreatedAt    time.Time `json:"createdAt"`

	TotalPoints      int   `json:"totalPoints"`
	ClaimedLocations []int `json:"claimedLocations"`

	// Display snapshot of the most recent successful claim. Not authoritative.
	LastClaimedLocation string     `json:"lastClaimedLocation,omitempty"`
	LastClaimedPhotoURL string     `json:"lastClaimedPhotoUrl,omitempty"`
	LastClaimedAt       *time.Time `json:"lastClaimedAt,omitempty"`

	AttemptsSinceClaim int              `json:"challengesAttemptedSinceLastClaim"`
	CurrentState       State            `json:"currentState"`
	ActiveChallenge    *ActiveChallenge `json:"activeChallenge,omitempty"`
}

// HasClaimed reports whether the team already claimed the location.
func (p Progress) HasClaimed(locationID int) bool {
	for _, id := range p.ClaimedLocations {
		if id == locationID {
			return true
		}
	}
	return false
}

// SubmissionAction records how an active challenge was resolved.
type SubmissionAction string

const (
	ActionCompleted SubmissionAction = "completed"
	ActionVetoed    SubmissionAction = "vetoed"
)

// Submission is the immutable audit entry written once per resolved
// challenge. It is never updated or deleted.
type Submission struct {
	ID            string           `json:"id,omitempty"`
	TeamID        string           `json:"teamId"`
	ChallengeID   int              `json:"challengeId"`
	LocationID    *int             `json:"locationId,omitempty"`
	PhotoURL      string           `json:"photoUrl,omitempty"`
	Action        SubmissionAction `json:"action"`
	PointsAwarded int              `json:"pointsAwarded"`
	Timestamp     time.Time        `json:"timestamp"`
}

// NewProgress builds the initial record for a freshly created team.
func NewProgress(id, name, passcodeHash string, createdAt time.Time) Progress {
	return Progress{
		ID:               id,
		Name:             name,
		PasscodeHash:     passcodeHash,
		CreatedAt:        createdAt,
		ClaimedLocations: []int{},
		CurrentState:     StateTraveling,
	}
}
