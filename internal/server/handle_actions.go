package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muralmadness/hunt/internal/catalog"
)

type StartClaimRequest struct {
	LocationID int `json:"locationId"`
}

type CompleteRequest struct {
	PhotoURL string `json:"photoUrl,omitempty"`
}

func handleGenerateChallenge(gw *Gateway, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := gw.GenerateChallenge(r.Context(), chi.URLParam(r, "teamID"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, teamResponse(p, cat))
	}
}

func handleStartClaim(gw *Gateway, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartClaimRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if _, ok := cat.Location(req.LocationID); !ok {
			writeError(w, http.StatusNotFound, "location not found")
			return
		}

		p, err := gw.StartClaim(r.Context(), chi.URLParam(r, "teamID"), req.LocationID)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, teamResponse(p, cat))
	}
}

func handleComplete(gw *Gateway, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The body is optional: handicap challenges carry no photo.
		var req CompleteRequest
		if r.ContentLength != 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		p, err := gw.Complete(r.Context(), chi.URLParam(r, "teamID"), req.PhotoURL)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, teamResponse(p, cat))
	}
}

func handleVeto(gw *Gateway, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := gw.Veto(r.Context(), chi.URLParam(r, "teamID"))
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, teamResponse(p, cat))
	}
}
