package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/courtside/competition-system/middleware"
	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/repositories"
	"github.com/courtside/competition-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
	eventService services.MatchEventService
}

func NewMatchHandler(matchService services.MatchService, eventService services.MatchEventService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		eventService: eventService,
	}
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	teamID, err := queryInt(r, "team_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.MatchStatus(raw)
		status = &s
	}

	matches, err := h.matchService.List(r.Context(), teamID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.Delete(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type startMatchRequest struct {
	MsFromStart *int64 `json:"ms_from_start,omitempty"`
}

func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input startMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Start(r.Context(), matchID, input.MsFromStart, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type pauseMatchRequest struct {
	MsFromStart *int64 `json:"ms_from_start,omitempty"`
	IsBreak     bool   `json:"is_break"`
	Period      int    `json:"period"`
}

func (h *MatchHandler) Pause(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input pauseMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Pause(r.Context(), matchID, input.MsFromStart, input.IsBreak, input.Period, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type resumeMatchRequest struct {
	MsFromStart *int64 `json:"ms_from_start,omitempty"`
	PausedMs    *int64 `json:"paused_ms,omitempty"`
	IsBreak     bool   `json:"is_break"`
	Period      int    `json:"period"`
}

func (h *MatchHandler) Resume(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input resumeMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Resume(r.Context(), matchID, input.MsFromStart, input.PausedMs, input.IsBreak, input.Period, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type endMatchRequest struct {
	Scores             services.PeriodScoresInput `json:"scores"`
	MsFromStart        *int64                     `json:"ms_from_start,omitempty"`
	StartedMsFromStart *int64                     `json:"started_ms_from_start,omitempty"`
}

func (h *MatchHandler) End(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input endMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.Scores.MatchID = matchID

	match, err := h.matchService.End(r.Context(), matchID, input.Scores, input.MsFromStart, input.StartedMsFromStart, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type restartMatchRequest struct {
	TimeInMilliseconds int64 `json:"time_in_milliseconds"`
	ClearAttendance    bool  `json:"clear_attendance"`
}

func (h *MatchHandler) Restart(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input restartMatchRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Restart(r.Context(), matchID, input.TimeInMilliseconds, input.ClearAttendance, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type extraTimeRequest struct {
	MsFromStart  *int64 `json:"ms_from_start,omitempty"`
	Period       int    `json:"period"`
	IsExtraExtra bool   `json:"is_extra_extra"`
}

func (h *MatchHandler) StartExtraTime(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input extraTimeRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.StartExtraTime(r.Context(), matchID, input.MsFromStart, input.Period, input.IsExtraExtra, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type changeScorerRequest struct {
	ScorerStatus models.ScorerStatus `json:"scorer_status"`
}

func (h *MatchHandler) ChangeScorer(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input changeScorerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.ChangeScorer(r.Context(), matchID, input.ScorerStatus, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type bulkNotifyRequest struct {
	MatchIDs []int `json:"match_ids"`
}

// BulkNotify pushes one notification covering several matches, used by
// admin flows that finalise a whole round in one go.
func (h *MatchHandler) BulkNotify(w http.ResponseWriter, r *http.Request) {
	var input bulkNotifyRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.SendBulkUpdate(r.Context(), input.MatchIDs, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, jsonResponse{"notified": len(matches)}, nil)
}

type updateScoreRequest struct {
	Team1Score       int     `json:"team1_score"`
	Team2Score       int     `json:"team2_score"`
	Period           int     `json:"period"`
	TeamSequence     int     `json:"team_sequence"`
	PositionID       int     `json:"position_id"`
	PlayerID         *int    `json:"player_id,omitempty"`
	GameStatCode     string  `json:"game_stat_code,omitempty"`
	CentrePassStatus *string `json:"centre_pass_status,omitempty"`
}

func (h *MatchHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updateScoreRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.eventService.UpdateScore(r.Context(), services.UpdateScoreInput{
		MatchID:          matchID,
		Team1Score:       input.Team1Score,
		Team2Score:       input.Team2Score,
		Period:           input.Period,
		TeamSequence:     input.TeamSequence,
		PositionID:       input.PositionID,
		PlayerID:         input.PlayerID,
		GameStatCode:     input.GameStatCode,
		CentrePassStatus: input.CentrePassStatus,
		UserID:           middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type periodScoresRequest struct {
	Period             int    `json:"period"`
	Team1Score         int    `json:"team1_score"`
	Team2Score         int    `json:"team2_score"`
	MsFromStart        *int64 `json:"ms_from_start,omitempty"`
	StartedMsFromStart *int64 `json:"started_ms_from_start,omitempty"`
}

func (h *MatchHandler) RecordPeriodScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input periodScoresRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	match, err = h.eventService.RecordPeriodScore(r.Context(), match, services.PeriodScoresInput{
		MatchID:    matchID,
		Period:     input.Period,
		Team1Score: input.Team1Score,
		Team2Score: input.Team2Score,
	}, input.MsFromStart, input.StartedMsFromStart)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

type updateStatsRequest struct {
	Period       int    `json:"period"`
	TeamSequence int    `json:"team_sequence"`
	PositionID   int    `json:"position_id"`
	PlayerID     *int   `json:"player_id,omitempty"`
	GameStatCode string `json:"game_stat_code"`
}

func (h *MatchHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updateStatsRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.eventService.UpdateStats(r.Context(), services.UpdateStatsInput{
		MatchID:      matchID,
		Period:       input.Period,
		TeamSequence: input.TeamSequence,
		PositionID:   input.PositionID,
		PlayerID:     input.PlayerID,
		GameStatCode: input.GameStatCode,
		UserID:       middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEvents filters the match log by category, type, limit and up to two
// attribute pairs passed as attr_key/attr_value query parameters.
func (h *MatchHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := repositories.MatchEventFilter{
		Category: models.EventCategory(q.Get("category")),
		Type:     q.Get("type"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			badRequestResponse(w, r, errors.New("query parameter limit must be a positive integer"))
			return
		}
		filter.Limit = limit
	}
	keys, values := q["attr_key"], q["attr_value"]
	if len(keys) != len(values) {
		badRequestResponse(w, r, errors.New("attr_key and attr_value must be passed in pairs"))
		return
	}
	if len(keys) > 0 {
		filter.Attributes = make(map[string]string, len(keys))
		for i, key := range keys {
			filter.Attributes[key] = values[i]
		}
	}

	events, err := h.eventService.FindByParams(r.Context(), matchID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil)
}

func (h *MatchHandler) DeleteEvents(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	deleted, err := h.eventService.DeleteByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"deleted": deleted}, nil)
}
