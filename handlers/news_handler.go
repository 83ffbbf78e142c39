package handlers

import (
	"errors"
	"net/http"

	"github.com/courtside/competition-system/services"
)

type NewsHandler struct {
	newsService services.NewsService
}

func NewNewsHandler(newsService services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateNewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	news, err := h.newsService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"news": news}, nil)
}

func (h *NewsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	newsID, err := pathInt(r, "newsID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	news, err := h.newsService.GetByID(r.Context(), newsID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"news": news}, nil)
}

func (h *NewsHandler) ListByOrganisation(w http.ResponseWriter, r *http.Request) {
	organisationID, err := queryInt(r, "organisation_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if organisationID == nil {
		badRequestResponse(w, r, errors.New("query parameter organisation_id is required"))
		return
	}

	items, err := h.newsService.ListByOrganisation(r.Context(), *organisationID, queryBool(r, "published_only"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"news": items}, nil)
}

// AttachImage accepts the raw image bytes; it relies on Content-Type to
// pick the object extension.
func (h *NewsHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	newsID, err := pathInt(r, "newsID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("Content-Type header is required"))
		return
	}
	defer r.Body.Close()

	news, err := h.newsService.AttachImage(r.Context(), newsID, contentType, http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"news": news}, nil)
}

func (h *NewsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	newsID, err := pathInt(r, "newsID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PublishNewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.NewsID = newsID

	news, err := h.newsService.Publish(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"news": news}, nil)
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	newsID, err := pathInt(r, "newsID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.newsService.Delete(r.Context(), newsID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
