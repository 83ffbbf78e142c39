package handlers

import (
	"net/http"

	"github.com/courtside/competition-system/services"
)

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rosterService services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

func (h *RosterHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var input services.AssignRosterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	roster, err := h.rosterService.Assign(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"roster": roster}, nil)
}

func (h *RosterHandler) Remove(w http.ResponseWriter, r *http.Request) {
	rosterID, err := pathInt(r, "rosterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rosterService.Remove(r.Context(), rosterID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RosterHandler) ListByMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rosters, err := h.rosterService.ListByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"rosters": rosters}, nil)
}

func (h *RosterHandler) AssignUmpire(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AssignUmpireInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID

	umpire, err := h.rosterService.AssignUmpire(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"umpire": umpire}, nil)
}

func (h *RosterHandler) ListUmpiresByMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	umpires, err := h.rosterService.ListUmpiresByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"umpires": umpires}, nil)
}
