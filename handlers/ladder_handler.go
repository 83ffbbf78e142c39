package handlers

import (
	"net/http"

	"github.com/courtside/competition-system/services"
)

type LadderHandler struct {
	ladderService services.LadderService
}

func NewLadderHandler(ladderService services.LadderService) *LadderHandler {
	return &LadderHandler{ladderService: ladderService}
}

func (h *LadderHandler) ListByDivision(w http.ResponseWriter, r *http.Request) {
	divisionID, err := pathInt(r, "divisionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.ladderService.ListByDivision(r.Context(), divisionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"ladder": standings}, nil)
}
