package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/muralmadness/hunt/internal/hunt"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Mural Madness API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Mural Madness scavenger hunt.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/catalog
	getCatalog, _ := r.NewOperationContext(http.MethodGet, "/api/catalog")
	getCatalog.SetSummary("Get catalog")
	getCatalog.SetDescription("Returns the immutable challenge and location reference tables.")
	getCatalog.AddRespStructure(CatalogResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCatalog)

	// GET /api/teams
	listTeams, _ := r.NewOperationContext(http.MethodGet, "/api/teams")
	listTeams.SetSummary("List teams")
	listTeams.SetDescription("Returns all teams in creation order, for the team picker.")
	listTeams.AddRespStructure([]TeamSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listTeams)

	// POST /api/teams
	createTeam, _ := r.NewOperationContext(http.MethodPost, "/api/teams")
	createTeam.SetSummary("Create team")
	createTeam.SetDescription("Registers a team with a name and passcode. The team starts traveling with zero points.")
	createTeam.AddReqStructure(CreateTeamRequest{})
	createTeam.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(createTeam)

	// GET /api/teams/{teamID}
	getTeam, _ := r.NewOperationContext(http.MethodGet, "/api/teams/{teamID}")
	getTeam.SetSummary("Get team progress")
	getTeam.SetDescription("Returns the team's current progress record.")
	getTeam.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getTeam)

	// POST /api/teams/{teamID}/verify
	verify, _ := r.NewOperationContext(http.MethodPost, "/api/teams/{teamID}/verify")
	verify.SetSummary("Verify passcode")
	verify.SetDescription("Checks a passcode against the team. The configured admin passcode opens any team.")
	verify.AddReqStructure(VerifyPasscodeRequest{})
	verify.AddRespStructure(VerifyPasscodeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	verify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(verify)

	// POST /api/teams/{teamID}/challenge
	generate, _ := r.NewOperationContext(http.MethodPost, "/api/teams/{teamID}/challenge")
	generate.SetSummary("Generate travel challenge")
	generate.SetDescription("Draws a random challenge for a traveling team. Fails once two challenges were attempted since the last claim.")
	generate.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	generate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	generate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	generate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(generate)

	// POST /api/teams/{teamID}/claim
	claim, _ := r.NewOperationContext(http.MethodPost, "/api/teams/{teamID}/claim")
	claim.SetSummary("Start location claim")
	claim.SetDescription("Draws a random challenge gating the claim of a location the team has not claimed yet.")
	claim.AddReqStructure(StartClaimRequest{})
	claim.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	claim.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	claim.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	claim.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(claim)

	// POST /api/teams/{teamID}/complete
	complete, _ := r.NewOperationContext(http.MethodPost, "/api/teams/{teamID}/complete")
	complete.SetSummary("Complete active challenge")
	complete.SetDescription("Resolves the active challenge, awarding points and, for claims, the location. The photo URL is optional for handicap challenges.")
	complete.AddReqStructure(CompleteRequest{})
	complete.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	complete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	complete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	complete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(complete)

	// POST /api/teams/{teamID}/veto
	veto, _ := r.NewOperationContext(http.MethodPost, "/api/teams/{teamID}/veto")
	veto.SetSummary("Veto active challenge")
	veto.SetDescription("Declines the active challenge for a point penalty. A vetoed claim challenge re-arms with a fresh draw for the same location.")
	veto.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	veto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	veto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	veto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(veto)

	// GET /api/teams/{teamID}/submissions
	subs, _ := r.NewOperationContext(http.MethodGet, "/api/teams/{teamID}/submissions")
	subs.SetSummary("List submissions")
	subs.SetDescription("Returns the team's immutable audit trail of completed and vetoed challenges, newest first.")
	subs.AddRespStructure([]hunt.Submission{}, openapi.WithHTTPStatus(http.StatusOK))
	subs.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(subs)

	// POST /api/teams/{teamID}/photos
	photo, _ := r.NewOperationContext(http.MethodPost, "/api/teams/{teamID}/photos")
	photo.SetSummary("Upload photo")
	photo.SetDescription("Stores a challenge photo and returns its URL. Pass the URL in the complete request.")
	photo.AddRespStructure(PhotoUploadResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	photo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	photo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(photo)

	// GET /api/leaderboard
	board, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	board.SetSummary("Get leaderboard")
	board.SetDescription("Returns teams sorted by total points descending, ties in creation order.")
	board.AddRespStructure([]LeaderboardEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(board)

	// GET /api/leaderboard/events
	boardEvents, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/events")
	boardEvents.SetSummary("Leaderboard SSE stream")
	boardEvents.SetDescription("Server-Sent Events stream of leaderboard snapshots after every committed action.")
	boardEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(boardEvents)

	// GET /api/teams/{teamID}/events
	teamEvents, _ := r.NewOperationContext(http.MethodGet, "/api/teams/{teamID}/events")
	teamEvents.SetSummary("Team SSE stream")
	teamEvents.SetDescription("Server-Sent Events stream of the team's progress record after every committed action.")
	teamEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	teamEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(teamEvents)

	// GET /ws/leaderboard
	wsBoard, _ := r.NewOperationContext(http.MethodGet, "/ws/leaderboard")
	wsBoard.SetSummary("Leaderboard websocket feed")
	wsBoard.SetDescription("Upgrades to a WebSocket pushing leaderboard snapshots after every committed action.")
	wsBoard.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(wsBoard)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
