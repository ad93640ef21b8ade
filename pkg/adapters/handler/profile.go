package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-biolink/pkg/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
	log     zerolog.Logger
}

func NewProfileHandler(service ports.ProfileService, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, log: log}
}

// Me exposes the session identity to the dashboard shell.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"user_id": OwnerID(r)})
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Get(r.Context(), OwnerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.Update(r.Context(), OwnerID(r), req.Username, req.FullName, req.AvatarURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Public renders the anonymous page. Any failure collapses to one "not
// found" response so visitors can't tell a missing username from a backend
// fault.
func (h *ProfileHandler) Public(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	page, err := h.service.ResolvePublic(r.Context(), username)
	if err != nil {
		h.log.Debug().Err(err).Str("username", username).Msg("public profile resolution failed")
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}
