package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/muralmadness/hunt/internal/catalog"
	"github.com/muralmadness/hunt/internal/hunt"
)

type CreateTeamRequest struct {
	Name     string `json:"name"`
	Passcode string `json:"passcode"`
}

type VerifyPasscodeRequest struct {
	Passcode string `json:"passcode"`
}

type VerifyPasscodeResponse struct {
	Valid bool `json:"valid"`
}

// ActiveChallengeInfo is the active challenge enriched with catalog metadata
// so clients can render it without their own copy of the tables.
type ActiveChallengeInfo struct {
	ChallengeID      int                   `json:"challengeId"`
	Description      string                `json:"description"`
	Points           int                   `json:"points"`
	Type             catalog.ChallengeType `json:"type"`
	ForLocationClaim bool                  `json:"isForLocationClaim"`
	LocationID       *int                  `json:"locationId,omitempty"`
	LocationName     string                `json:"locationName,omitempty"`
}

// TeamResponse is the progress record as rendered to clients. The passcode
// hash never leaves the server.
type TeamResponse struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	CreatedAt           string               `json:"createdAt"`
	TotalPoints         int                  `json:"totalPoints"`
	ClaimedLocations    []int                `json:"claimedLocations"`
	LastClaimedLocation string               `json:"lastClaimedLocation,omitempty"`
	LastClaimedPhotoURL string               `json:"lastClaimedPhotoUrl,omitempty"`
	LastClaimedAt       *string              `json:"lastClaimedAt,omitempty"`
	AttemptsSinceClaim  int                  `json:"challengesAttemptedSinceLastClaim"`
	CurrentState        hunt.State           `json:"currentState"`
	ActiveChallenge     *ActiveChallengeInfo `json:"activeChallenge,omitempty"`
}

func teamResponse(p hunt.Progress, cat *catalog.Catalog) TeamResponse {
	resp := TeamResponse{
		ID:                  p.ID,
		Name:                p.Name,
		CreatedAt:           p.CreatedAt.Format(timeLayout),
		TotalPoints:         p.TotalPoints,
		ClaimedLocations:    p.ClaimedLocations,
		LastClaimedLocation: p.LastClaimedLocation,
		LastClaimedPhotoURL: p.LastClaimedPhotoURL,
		AttemptsSinceClaim:  p.AttemptsSinceClaim,
		CurrentState:        p.CurrentState,
	}
	if resp.ClaimedLocations == nil {
		resp.ClaimedLocations = []int{}
	}
	if p.LastClaimedAt != nil {
		at := p.LastClaimedAt.Format(timeLayout)
		resp.LastClaimedAt = &at
	}
	if active := p.ActiveChallenge; active != nil {
		info := ActiveChallengeInfo{
			ChallengeID:      active.ChallengeID,
			ForLocationClaim: active.ForLocationClaim,
			LocationID:       active.LocationID,
		}
		if ch, ok := cat.Challenge(active.ChallengeID); ok {
			info.Description = ch.Description
			info.Points = ch.Points
			info.Type = ch.Type
		}
		if active.LocationID != nil {
			if loc, ok := cat.Location(*active.LocationID); ok {
				info.LocationName = loc.Name
			}
		}
		resp.ActiveChallenge = &info
	}
	return resp
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func handleCreateTeam(gw *Gateway, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTeamRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.Passcode == "" {
			writeError(w, http.StatusBadRequest, "name and passcode are required")
			return
		}

		p, err := gw.CreateTeam(r.Context(), req.Name, req.Passcode)
		if errors.Is(err, ErrNameTaken) {
			writeError(w, http.StatusConflict, "team name already taken")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, teamResponse(p, cat))
	}
}

func handleListTeams(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := store.ListTeams(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

func handleGetTeam(store Store, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _, err := store.GetTeam(r.Context(), chi.URLParam(r, "teamID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, teamResponse(p, cat))
	}
}

func handleVerifyPasscode(gw *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyPasscodeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		valid, err := gw.VerifyPasscode(r.Context(), chi.URLParam(r, "teamID"), req.Passcode)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, VerifyPasscodeResponse{Valid: valid})
	}
}

func handleListSubmissions(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")

		// Distinguish "no submissions yet" from "no such team".
		if _, _, err := store.GetTeam(r.Context(), teamID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "team not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		subs, err := store.ListSubmissions(r.Context(), teamID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, subs)
	}
}
