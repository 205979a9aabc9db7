package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/muralmadness/hunt/internal/catalog"
	"github.com/muralmadness/hunt/internal/hunt"
)

// ErrContention is returned when a transition keeps losing the version race
// after bounded retries. Callers may simply try again.
var ErrContention = errors.New("too much contention, try again")

// maxRetries bounds how often a transition is re-evaluated after losing the
// version race before contention is surfaced.
const maxRetries = 3

// Gateway orchestrates one gameplay action end to end: load the progress
// record, run the state machine, and commit record + submissions as a single
// conditional write. Precondition rejections pass straight through;
// version conflicts trigger a full re-read and re-evaluation.
type Gateway struct {
	store         Store
	machine       *hunt.Machine
	catalog       *catalog.Catalog
	broker        *Broker
	logger        *slog.Logger
	adminPasscode string
	now           func() time.Time
}

func NewGateway(store Store, machine *hunt.Machine, cat *catalog.Catalog, broker *Broker, logger *slog.Logger, adminPasscode string) *Gateway {
	return &Gateway{
		store:         store,
		machine:       machine,
		catalog:       cat,
		broker:        broker,
		logger:        logger,
		adminPasscode: adminPasscode,
		now:           time.Now,
	}
}

// CreateTeam registers a team with an initial Traveling record and an empty
// claim set. The passcode is stored as a bcrypt hash.
func (g *Gateway) CreateTeam(ctx context.Context, name, passcode string) (hunt.Progress, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return hunt.Progress{}, err
	}

	p := hunt.NewProgress(uuid.NewString(), strings.TrimSpace(name), string(hash), g.now().UTC())
	if err := g.store.CreateTeam(ctx, p); err != nil {
		return hunt.Progress{}, err
	}

	g.publishLeaderboard(ctx)
	return p, nil
}

// VerifyPasscode compares the offered passcode against the team's hash. The
// configured admin passcode, when set, opens any team.
func (g *Gateway) VerifyPasscode(ctx context.Context, teamID, passcode string) (bool, error) {
	p, _, err := g.store.GetTeam(ctx, teamID)
	if err != nil {
		return false, err
	}
	if g.adminPasscode != "" && passcode == g.adminPasscode {
		return true, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(p.PasscodeHash), []byte(passcode))
	return err == nil, nil
}

// GenerateChallenge draws a travel challenge for the team.
func (g *Gateway) GenerateChallenge(ctx context.Context, teamID string) (hunt.Progress, error) {
	return g.perform(ctx, teamID, func(p hunt.Progress) (hunt.Progress, []hunt.Submission, error) {
		next, err := g.machine.GenerateChallenge(p)
		return next, nil, err
	})
}

// StartClaim draws a challenge gating the claim of locationID.
func (g *Gateway) StartClaim(ctx context.Context, teamID string, locationID int) (hunt.Progress, error) {
	return g.perform(ctx, teamID, func(p hunt.Progress) (hunt.Progress, []hunt.Submission, error) {
		next, err := g.machine.StartClaim(p, locationID)
		return next, nil, err
	})
}

// Complete resolves the active challenge successfully, recording photoURL
// with the claim when one was taken.
func (g *Gateway) Complete(ctx context.Context, teamID, photoURL string) (hunt.Progress, error) {
	return g.perform(ctx, teamID, func(p hunt.Progress) (hunt.Progress, []hunt.Submission, error) {
		next, sub, err := g.machine.Complete(p, photoURL, g.now().UTC())
		if err != nil {
			return next, nil, err
		}
		return next, []hunt.Submission{sub}, nil
	})
}

// Veto declines the active challenge for a penalty.
func (g *Gateway) Veto(ctx context.Context, teamID string) (hunt.Progress, error) {
	return g.perform(ctx, teamID, func(p hunt.Progress) (hunt.Progress, []hunt.Submission, error) {
		next, sub, err := g.machine.Veto(p, g.now().UTC())
		if err != nil {
			return next, nil, err
		}
		return next, []hunt.Submission{sub}, nil
	})
}

// perform runs one read-evaluate-commit cycle, retrying the whole cycle on
// version conflicts. Machine rejections are final: the record they were
// computed against was current at read time, so retrying cannot help unless
// the record changes, and then the caller should see the fresh state anyway.
func (g *Gateway) perform(ctx context.Context, teamID string, step func(hunt.Progress) (hunt.Progress, []hunt.Submission, error)) (hunt.Progress, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		p, version, err := g.store.GetTeam(ctx, teamID)
		if err != nil {
			return hunt.Progress{}, err
		}

		next, subs, err := step(p)
		if err != nil {
			return hunt.Progress{}, err
		}

		err = g.store.UpdateTeam(ctx, next, version, subs)
		if errors.Is(err, ErrVersionConflict) {
			g.logger.Debug("progress write conflict, retrying",
				"team_id", teamID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return hunt.Progress{}, err
		}

		g.publishTeam(ctx, next)
		g.publishLeaderboard(ctx)
		return next, nil
	}
	return hunt.Progress{}, ErrContention
}

func (g *Gateway) publishTeam(ctx context.Context, p hunt.Progress) {
	data, err := json.Marshal(teamResponse(p, g.catalog))
	if err != nil {
		g.logger.Error("encoding team snapshot", "team_id", p.ID, "error", err)
		return
	}
	g.broker.Publish(topicTeam(p.ID), data)
}

func (g *Gateway) publishLeaderboard(ctx context.Context) {
	entries, err := g.store.Leaderboard(ctx)
	if err != nil {
		g.logger.Error("loading leaderboard snapshot", "error", err)
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		g.logger.Error("encoding leaderboard snapshot", "error", err)
		return
	}
	g.broker.Publish(topicLeaderboard, data)
}
