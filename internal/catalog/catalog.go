// Package catalog holds the static reference data for the hunt: the pool of
// challenges teams can draw and the set of claimable locations. Both tables
// are compiled into the binary and immutable for the process lifetime.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed challenges.json
var challengesJSON []byte

//go:embed locations.json
var locationsJSON []byte

type ChallengeType string

const (
	ChallengeNormal   ChallengeType = "normal"
	ChallengeHandicap ChallengeType = "handicap"
)

type Challenge struct {
	ID          int           `json:"id"`
	Description string        `json:"description"`
	Points      int           `json:"points"`
	Type        ChallengeType `json:"type"`
}

type Location struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Catalog is the immutable lookup for challenges and locations.
type Catalog struct {
	challenges   []Challenge
	locations    []Location
	challengeIdx map[int]Challenge
	locationIdx  map[int]Location
}

// Load parses the embedded reference data. Called once at startup.
func Load() (*Catalog, error) {
	var challenges []Challenge
	if err := json.Unmarshal(challengesJSON, &challenges); err != nil {
		return nil, fmt.Errorf("parsing challenges: %w", err)
	}
	var locations []Location
	if err := json.Unmarshal(locationsJSON, &locations); err != nil {
		return nil, fmt.Errorf("parsing locations: %w", err)
	}
	return New(challenges, locations)
}

// New builds a catalog from explicit tables. Tests use this to supply small
// deterministic fixtures.
func New(challenges []Challenge, locations []Location) (*Catalog, error) {
	if len(challenges) == 0 {
		return nil, fmt.Errorf("catalog: no challenges")
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("catalog: no locations")
	}

	c := &Catalog{
		challenges:   challenges,
		locations:    locations,
		challengeIdx: make(map[int]Challenge, len(challenges)),
		locationIdx:  make(map[int]Location, len(locations)),
	}
	for _, ch := range challenges {
		if _, dup := c.challengeIdx[ch.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate challenge id %d", ch.ID)
		}
		c.challengeIdx[ch.ID] = ch
	}
	for _, l := range locations {
		if _, dup := c.locationIdx[l.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate location id %d", l.ID)
		}
		c.locationIdx[l.ID] = l
	}
	return c, nil
}

// Challenge looks up a challenge by id.
func (c *Catalog) Challenge(id int) (Challenge, bool) {
	ch, ok := c.challengeIdx[id]
	return ch, ok
}

// Location looks up a location by id.
func (c *Catalog) Location(id int) (Location, bool) {
	l, ok := c.locationIdx[id]
	return l, ok
}

// Challenges returns a copy of the challenge table.
func (c *Catalog) Challenges() []Challenge {
	out := make([]Challenge, len(c.challenges))
	copy(out, c.challenges)
	return out
}

// Locations returns a copy of the location table.
func (c *Catalog) Locations() []Location {
	out := make([]Location, len(c.locations))
	copy(out, c.locations)
	return out
}

// PickChallenge draws one challenge using pick, which must return a value in
// [0, n). The draw is uniform over the whole pool; handicap and normal
// challenges share it without weighting.
func (c *Catalog) PickChallenge(pick func(n int) int) Challenge {
	return c.challenges[pick(len(c.challenges))]
}
