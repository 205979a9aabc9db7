package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muralmadness/hunt/internal/blob"
	"github.com/muralmadness/hunt/internal/catalog"
)

// maxPhotoBytes caps photo uploads at 10 MiB.
const maxPhotoBytes = 10 << 20

type PhotoUploadResponse struct {
	URL string `json:"url"`
}

// handleUploadPhoto accepts a multipart photo for the team's in-flight
// challenge and returns the stored URL. The caller passes that URL back in
// the complete request; the core never looks inside it.
func handleUploadPhoto(store Store, photos *blob.Store, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "teamID")

		p, _, err := store.GetTeam(r.Context(), teamID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
		file, header, err := r.FormFile("photo")
		if err != nil {
			writeError(w, http.StatusBadRequest, "photo file is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading photo failed")
			return
		}

		meta := blob.Meta{TeamName: p.Name}
		if active := p.ActiveChallenge; active != nil {
			meta.ChallengeID = active.ChallengeID
			if active.LocationID != nil {
				if loc, ok := cat.Location(*active.LocationID); ok {
					meta.LocationName = loc.Name
				}
			}
		}

		url, err := photos.Put(teamID, data, header.Header.Get("Content-Type"), meta)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, PhotoUploadResponse{URL: url})
	}
}
