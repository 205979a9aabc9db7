package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/muralmadness/hunt/internal/blob"
	"github.com/muralmadness/hunt/internal/catalog"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, gw *Gateway, broker *Broker, cat *catalog.Catalog, photos *blob.Store, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Mural Madness API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/ws/leaderboard", handleWSLeaderboard(logger, store, broker))

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", handleCatalog(cat))
		r.Get("/leaderboard", handleLeaderboard(store))
		r.Get("/leaderboard/events", handleLeaderboardEvents(store, broker))

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", handleListTeams(store))
			r.Post("/", handleCreateTeam(gw, cat))

			r.Route("/{teamID}", func(r chi.Router) {
				r.Get("/", handleGetTeam(store, cat))
				r.Post("/verify", handleVerifyPasscode(gw))
				r.Get("/events", handleTeamEvents(store, broker, cat))
				r.Get("/submissions", handleListSubmissions(store))
				r.Post("/photos", handleUploadPhoto(store, photos, cat))

				r.Post("/challenge", handleGenerateChallenge(gw, cat))
				r.Post("/claim", handleStartClaim(gw, cat))
				r.Post("/complete", handleComplete(gw, cat))
				r.Post("/veto", handleVeto(gw, cat))
			})
		})
	})

	if photos != nil {
		r.Handle("/photos/*", http.StripPrefix("/photos/",
			http.FileServer(http.Dir(photos.Dir()))))
	}

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
