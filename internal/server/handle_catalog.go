package server

import (
	"net/http"

	"github.com/muralmadness/hunt/internal/catalog"
)

type CatalogResponse struct {
	Challenges []catalog.Challenge `json:"challenges"`
	Locations  []catalog.Location  `json:"locations"`
}

func handleCatalog(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, CatalogResponse{
			Challenges: cat.Challenges(),
			Locations:  cat.Locations(),
		})
	}
}
