package server

import (
	"net/http"
	"testing"
)

func TestCatalogHandler(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	got := decode[CatalogResponse](t, w)
	if len(got.Challenges) != 3 {
		t.Errorf("got %d challenges, want 3", len(got.Challenges))
	}
	if len(got.Locations) != 2 {
		t.Errorf("got %d locations, want 2", len(got.Locations))
	}
	if got.Challenges[0].Description != "Sing a song" {
		t.Errorf("first challenge = %+v", got.Challenges[0])
	}
	if got.Locations[0].Name != "Rainbow Stairs" {
		t.Errorf("first location = %+v", got.Locations[0])
	}
}
