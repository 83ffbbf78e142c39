package handlers

import (
	"errors"
	"net/http"

	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/services"
	"github.com/go-chi/chi/v5"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var team models.Team
	if err := readJSON(w, r, &team); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.teamService.Create(r.Context(), &team)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"team": created}, nil)
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathInt(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil)
}

func (h *TeamHandler) ListByDivision(w http.ResponseWriter, r *http.Request) {
	divisionID, err := queryInt(r, "division_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if divisionID == nil {
		badRequestResponse(w, r, errors.New("query parameter division_id is required"))
		return
	}

	teams, err := h.teamService.ListByDivision(r.Context(), *divisionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathInt(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.Delete(r.Context(), teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterDeviceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	device, err := h.teamService.RegisterDevice(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"device": device}, nil)
}

func (h *TeamHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathInt(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.WatchlistInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TeamID = teamID

	entry, err := h.teamService.AddToWatchlist(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"watchlist": entry}, nil)
}

func (h *TeamHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathInt(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	deviceID := chi.URLParam(r, "deviceID")
	if deviceID == "" {
		badRequestResponse(w, r, errors.New("invalid deviceID parameter"))
		return
	}

	if err := h.teamService.RemoveFromWatchlist(r.Context(), deviceID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
