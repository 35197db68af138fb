package handler

import (
	"encoding/json"
	"net/http"

	"github.com/inspection-api/internal/application/inspection"
	"github.com/inspection-api/internal/pkg/validate"
)

// VideoHandler serves staff-side access to uploaded media.
type VideoHandler struct {
	svc inspection.Service
}

func NewVideoHandler(svc inspection.Service) *VideoHandler {
	return &VideoHandler{svc: svc}
}

type viewURLRequest struct {
	VideoKey string `json:"video_key" validate:"required"`
}

// ViewURL mints a short-lived presigned GET for a stored video. Authenticated.
func (h *VideoHandler) ViewURL(w http.ResponseWriter, r *http.Request) {
	var req viewURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	url, err := h.svc.MintViewURL(r.Context(), req.VideoKey)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"view_url": url})
}
