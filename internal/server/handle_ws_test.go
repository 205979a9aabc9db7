package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"nhooyr.io/websocket"
)

func TestWSLeaderboard(t *testing.T) {
	r := testRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	createTestTeam(t, r, "Alpha")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/ws/leaderboard"

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	// Initial snapshot on connect.
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("decoding initial snapshot: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Alpha" {
		t.Fatalf("initial snapshot = %+v", entries)
	}

	// A commit pushes a fresh snapshot.
	createTestTeam(t, r, "Bravo")

	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("read pushed snapshot: %v", err)
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("decoding pushed snapshot: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("pushed snapshot = %+v, want both teams", entries)
	}

	conn.Close(websocket.StatusNormalClosure, "done")
}
