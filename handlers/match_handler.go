package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/TheMordhon1/warga-pkt/middleware"
	"github.com/TheMordhon1/warga-pkt/models"
	"github.com/TheMordhon1/warga-pkt/services"
)

type MatchHandler struct {
	matchService       services.MatchService
	refereeService     services.RefereeService
	competitionService services.CompetitionService
}

func NewMatchHandler(
	matchService services.MatchService,
	refereeService services.RefereeService,
	competitionService services.CompetitionService,
) *MatchHandler {
	return &MatchHandler{
		matchService:       matchService,
		refereeService:     refereeService,
		competitionService: competitionService,
	}
}

// CreateMatchHandler adds one match to a competition whose schedule is
// maintained by hand (league, swiss, custom formats).
func (h *MatchHandler) CreateMatchHandler(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), competitionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	q := r.URL.Query()
	var round *int
	if raw := q.Get("round"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequestResponse(w, r, fmt.Errorf("invalid round parameter %q", raw))
			return
		}
		round = &n
	}
	var status *models.MatchStatus
	if raw := q.Get("status"); raw != "" {
		s := models.MatchStatus(raw)
		status = &s
	}

	matches, err := h.matchService.ListByCompetition(r.Context(), competitionID, round, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMatchHandler records match progress. Only staff (admin or
// pengurus), the competition organizer, or a referee assigned to the
// competition may record results.
func (h *MatchHandler) UpdateMatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	allowed, err := h.canRecordResult(r, user, match.CompetitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if !allowed {
		forbiddenResponse(w, r, services.ErrForbiddenOperation.Error())
		return
	}

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.matchService.UpdateMatch(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) canRecordResult(r *http.Request, user middleware.AuthUser, competitionID int) (bool, error) {
	if user.Role == models.RoleAdmin || user.Role == models.RolePengurus {
		return true, nil
	}

	competition, err := h.competitionService.Get(r.Context(), competitionID)
	if err != nil {
		return false, err
	}
	if competition.OrganizerID == user.ID {
		return true, nil
	}

	return h.refereeService.IsReferee(r.Context(), competitionID, user.ID)
}
