package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
	"github.com/wadjakorntonsri/go-biolink/pkg/ports"
)

type LinkHandler struct {
	service ports.LinkService
}

func NewLinkHandler(service ports.LinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

// LinkRequest carries create/update payloads
type LinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MoveRequest identifies a row of the currently displayed list by index
type MoveRequest struct {
	Index     int    `json:"index"`
	Direction string `json:"direction"` // "up" or "down"
}

// List returns all of the owner's links, sort key ascending.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context(), OwnerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	link, err := h.service.Create(r.Context(), OwnerID(r), req.Title, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	link, err := h.service.Update(r.Context(), OwnerID(r), r.PathValue("id"), req.Title, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Delete always answers 204: removing an already removed link is success
// from the caller's point of view.
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), OwnerID(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LinkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.ToggleActive(r.Context(), OwnerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Move swaps a link with its neighbour and responds with the canonical
// order refetched from storage, so the client never renders a locally
// mutated copy.
func (h *LinkHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	links, err := h.service.Move(r.Context(), OwnerID(r), req.Index, domain.MoveDirection(req.Direction))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}
