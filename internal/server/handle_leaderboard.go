package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

func handleLeaderboard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := store.Leaderboard(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// handleLeaderboardEvents streams leaderboard snapshots over SSE: one
// immediately on connect, then one after every committed transaction.
func handleLeaderboardEvents(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		// Subscribe before the initial read so no commit between the two is
		// lost; the subscriber may see a snapshot twice, never a gap.
		ch := broker.Subscribe(topicLeaderboard)
		defer broker.Unsubscribe(topicLeaderboard, ch)

		entries, err := store.Leaderboard(r.Context())
		if err == nil {
			if data, err := json.Marshal(entries); err == nil {
				fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", data)
			}
		}
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
