package hunt

import (
	"fmt"
	"time"

	"github.com/muralmadness/hunt/internal/catalog"
)

// PreconditionError rejects an action whose precondition does not hold for
// the current record. It is a legitimate refusal, never retried, and the
// transition that produced it has no effect.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

func precondition(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// LookupError means a referenced challenge or location id is missing from
// the catalog. With a well-formed catalog this cannot happen; it signals an
// internal consistency fault, not a caller mistake.
type LookupError struct {
	Kind string
	ID   int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("catalog lookup failed: %s %d", e.Kind, e.ID)
}

// Machine computes progress transitions. It is safe for concurrent use: all
// methods take the current record by value and return the next record
// without touching shared state. pick draws a uniform index in [0, n).
type Machine struct {
	catalog *catalog.Catalog
	pick    func(n int) int
}

// NewMachine wires the machine to its catalog and random source. Tests pass
// a deterministic pick.
func NewMachine(c *catalog.Catalog, pick func(n int) int) *Machine {
	return &Machine{catalog: c, pick: pick}
}

// GenerateChallenge starts a travel challenge: Traveling -> CompletingChallenge.
func (m *Machine) GenerateChallenge(p Progress) (Progress, error) {
	if p.CurrentState != StateTraveling {
		return p, precondition("team is busy (state %s)", p.CurrentState)
	}
	if p.ActiveChallenge != nil {
		return p, precondition("active challenge already exists")
	}
	if p.AttemptsSinceClaim >= MaxTravelAttempts {
		return p, precondition("maximum of %d challenges reached before next claim", MaxTravelAttempts)
	}

	ch := m.catalog.PickChallenge(m.pick)
	p.CurrentState = StateCompletingChallenge
	p.ActiveChallenge = &ActiveChallenge{ChallengeID: ch.ID}
	return p, nil
}

// StartClaim starts a challenge gating a location claim:
// Traveling -> ClaimingLocation.
func (m *Machine) StartClaim(p Progress, locationID int) (Progress, error) {
	if p.CurrentState != StateTraveling {
		return p, precondition("team is busy (state %s)", p.CurrentState)
	}
	if p.ActiveChallenge != nil {
		return p, precondition("active challenge already exists")
	}
	if _, ok := m.catalog.Location(locationID); !ok {
		return p, &LookupError{Kind: "location", ID: locationID}
	}
	if p.HasClaimed(locationID) {
		return p, precondition("location %d already claimed", locationID)
	}

	ch := m.catalog.PickChallenge(m.pick)
	loc := locationID
	p.CurrentState = StateClaimingLocation
	p.ActiveChallenge = &ActiveChallenge{ChallengeID: ch.ID, ForLocationClaim: true, LocationID: &loc}
	return p, nil
}

// Complete resolves the active challenge. For a claim challenge it awards
// the location's points and permanently claims the location; for a travel
// challenge it awards the challenge's points and counts the attempt. Either
// way the team returns to Traveling and exactly one submission is emitted.
// photoURL may be empty (handicap challenges require no photo).
func (m *Machine) Complete(p Progress, photoURL string, now time.Time) (Progress, Submission, error) {
	active := p.ActiveChallenge
	if active == nil {
		return p, Submission{}, precondition("no active challenge")
	}

	if active.ForLocationClaim {
		if active.LocationID == nil {
			return p, Submission{}, precondition("active claim has no location")
		}
		loc, ok := m.catalog.Location(*active.LocationID)
		if !ok {
			return p, Submission{}, &LookupError{Kind: "location", ID: *active.LocationID}
		}

		p.TotalPoints += loc.Points
		if !p.HasClaimed(loc.ID) {
			claimed := make([]int, len(p.ClaimedLocations), len(p.ClaimedLocations)+1)
			copy(claimed, p.ClaimedLocations)
			p.ClaimedLocations = append(claimed, loc.ID)
		}
		p.LastClaimedLocation = loc.Name
		p.LastClaimedPhotoURL = photoURL
		p.LastClaimedAt = &now
		p.AttemptsSinceClaim = 0
		p.CurrentState = StateTraveling
		p.ActiveChallenge = nil

		return p, Submission{
			TeamID:        p.ID,
			ChallengeID:   active.ChallengeID,
			LocationID:    active.LocationID,
			PhotoURL:      photoURL,
			Action:        ActionCompleted,
			PointsAwarded: loc.Points,
			Timestamp:     now,
		}, nil
	}

	ch, ok := m.catalog.Challenge(active.ChallengeID)
	if !ok {
		return p, Submission{}, &LookupError{Kind: "challenge", ID: active.ChallengeID}
	}

	p.TotalPoints += ch.Points
	p.AttemptsSinceClaim++
	p.CurrentState = StateTraveling
	p.ActiveChallenge = nil

	return p, Submission{
		TeamID:        p.ID,
		ChallengeID:   active.ChallengeID,
		PhotoURL:      photoURL,
		Action:        ActionCompleted,
		PointsAwarded: ch.Points,
		Timestamp:     now,
	}, nil
}

// Veto declines the active challenge at the cost of its point value. A
// vetoed claim challenge re-arms with a fresh draw for the same location; a
// vetoed travel challenge counts the attempt and returns to Traveling.
func (m *Machine) Veto(p Progress, now time.Time) (Progress, Submission, error) {
	active := p.ActiveChallenge
	if active == nil {
		return p, Submission{}, precondition("no active challenge")
	}

	ch, ok := m.catalog.Challenge(active.ChallengeID)
	if !ok {
		return p, Submission{}, &LookupError{Kind: "challenge", ID: active.ChallengeID}
	}
	penalty := -ch.Points

	if active.ForLocationClaim {
		next := m.catalog.PickChallenge(m.pick)
		p.TotalPoints += penalty
		p.CurrentState = StateClaimingLocation
		p.ActiveChallenge = &ActiveChallenge{
			ChallengeID:      next.ID,
			ForLocationClaim: true,
			LocationID:       active.LocationID,
		}

		return p, Submission{
			TeamID:        p.ID,
			ChallengeID:   active.ChallengeID,
			LocationID:    active.LocationID,
			Action:        ActionVetoed,
			PointsAwarded: penalty,
			Timestamp:     now,
		}, nil
	}

	p.TotalPoints += penalty
	p.AttemptsSinceClaim++
	p.CurrentState = StateTraveling
	p.ActiveChallenge = nil

	return p, Submission{
		TeamID:        p.ID,
		ChallengeID:   active.ChallengeID,
		Action:        ActionVetoed,
		PointsAwarded: penalty,
		Timestamp:     now,
	}, nil
}
