package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// handleWSLeaderboard pushes leaderboard snapshots over a websocket, for
// clients that keep a scoreboard open for the whole game. Same feed as the
// SSE endpoint, different transport.
func handleWSLeaderboard(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		conn.CloseRead(ctx)

		ch := broker.Subscribe(topicLeaderboard)
		defer broker.Unsubscribe(topicLeaderboard, ch)

		if entries, err := store.Leaderboard(ctx); err == nil {
			if data, err := json.Marshal(entries); err == nil {
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					return
				}
			}
		}

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			case <-ping.C:
				if err := conn.Ping(ctx); err != nil {
					logger.Debug("websocket ping failed", "error", err)
					return
				}
			}
		}
	}
}
