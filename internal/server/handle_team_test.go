package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/muralmadness/hunt/internal/blob"
	"github.com/muralmadness/hunt/internal/hunt"
)

func testRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db := openTestDB(t)
	store := NewDocStore(db)
	broker := NewBroker()
	cat := testCatalog(t)
	machine := hunt.NewMachine(cat, func(n int) int { return 0 })
	gw := NewGateway(store, machine, cat, broker, discardLogger(), "master")

	photos, err := blob.NewStore(t.TempDir(), "/photos")
	if err != nil {
		t.Fatalf("photo store: %v", err)
	}

	r := chi.NewRouter()
	addRoutes(r, discardLogger(), db, store, gw, broker, cat, photos, Options{AdminPasscode: "master"})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return v
}

func createTestTeam(t *testing.T, r http.Handler, name string) TeamResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/teams", CreateTeamRequest{Name: name, Passcode: "1234"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode[TeamResponse](t, w)
}

func TestCreateTeamHandler(t *testing.T) {
	r := testRouter(t)

	team := createTestTeam(t, r, "Los Andes")
	if team.ID == "" {
		t.Fatal("expected a team id")
	}
	if team.Name != "Los Andes" {
		t.Errorf("name = %q", team.Name)
	}
	if team.CurrentState != hunt.StateTraveling || team.TotalPoints != 0 {
		t.Errorf("initial team = %+v", team)
	}
	if team.ClaimedLocations == nil || len(team.ClaimedLocations) != 0 {
		t.Errorf("claimed = %v, want []", team.ClaimedLocations)
	}
	if team.ActiveChallenge != nil {
		t.Error("new team must have no active challenge")
	}

	// Duplicate name.
	w := doJSON(t, r, http.MethodPost, "/api/teams", CreateTeamRequest{Name: "Los Andes", Passcode: "x"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate name: expected 409, got %d", w.Code)
	}

	// Missing fields.
	w = doJSON(t, r, http.MethodPost, "/api/teams", CreateTeamRequest{Name: "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank name: expected 400, got %d", w.Code)
	}

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/api/teams", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: expected 400, got %d", rec.Code)
	}
}

func TestGetTeamHandler(t *testing.T) {
	r := testRouter(t)
	team := createTestTeam(t, r, "Los Andes")

	w := doJSON(t, r, http.MethodGet, "/api/teams/"+team.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode[TeamResponse](t, w)
	if got.ID != team.ID || got.Name != "Los Andes" {
		t.Errorf("team = %+v", got)
	}
	if strings.Contains(w.Body.String(), "passcode") {
		t.Error("response must not leak the passcode hash")
	}

	w = doJSON(t, r, http.MethodGet, "/api/teams/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown team: expected 404, got %d", w.Code)
	}
}

func TestListTeamsHandler(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/teams", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decode[[]TeamSummary](t, w); len(got) != 0 {
		t.Errorf("empty listing = %v", got)
	}

	createTestTeam(t, r, "Alpha")
	createTestTeam(t, r, "Bravo")

	w = doJSON(t, r, http.MethodGet, "/api/teams", nil)
	teams := decode[[]TeamSummary](t, w)
	if len(teams) != 2 {
		t.Fatalf("got %d teams, want 2", len(teams))
	}
}

func TestVerifyPasscodeHandler(t *testing.T) {
	r := testRouter(t)
	team := createTestTeam(t, r, "Los Andes")

	check := func(passcode string, want bool) {
		t.Helper()
		w := doJSON(t, r, http.MethodPost, "/api/teams/"+team.ID+"/verify", VerifyPasscodeRequest{Passcode: passcode})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := decode[VerifyPasscodeResponse](t, w); got.Valid != want {
			t.Errorf("passcode %q: valid = %v, want %v", passcode, got.Valid, want)
		}
	}

	check("1234", true)
	check("wrong", false)
	check("master", true) // admin override

	w := doJSON(t, r, http.MethodPost, "/api/teams/ghost/verify", VerifyPasscodeRequest{Passcode: "1234"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown team: expected 404, got %d", w.Code)
	}
}

func TestListSubmissionsHandler(t *testing.T) {
	r := testRouter(t)
	team := createTestTeam(t, r, "Los Andes")

	w := doJSON(t, r, http.MethodGet, "/api/teams/"+team.ID+"/submissions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if subs := decode[[]hunt.Submission](t, w); len(subs) != 0 {
		t.Errorf("fresh team submissions = %v, want []", subs)
	}

	// Resolve one challenge, then the audit trail has one entry.
	doJSON(t, r, http.MethodPost, "/api/teams/"+team.ID+"/challenge", nil)
	doJSON(t, r, http.MethodPost, "/api/teams/"+team.ID+"/veto", nil)

	w = doJSON(t, r, http.MethodGet, "/api/teams/"+team.ID+"/submissions", nil)
	subs := decode[[]hunt.Submission](t, w)
	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}
	if subs[0].Action != hunt.ActionVetoed || subs[0].PointsAwarded != -10 {
		t.Errorf("submission = %+v", subs[0])
	}

	w = doJSON(t, r, http.MethodGet, "/api/teams/ghost/submissions", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown team: expected 404, got %d", w.Code)
	}
}
