package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inspection-api/internal/application/verification"
	"github.com/inspection-api/internal/pkg/validate"
)

// VerificationHandler handles the phone-verification flow endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var req verification.RequestCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		result, err := h.svc.RequestCode(r.Context(), req)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case "validate-code":
		var req verification.ValidateCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		result, err := h.svc.ValidateCode(r.Context(), req)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, VerifiedEnvelope{
			Verified:    true,
			PhoneNumber: result.PhoneNumber,
			Bearer:      result.Bearer,
		})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

// VerifiedEnvelope wraps a successful code validation.
type VerifiedEnvelope struct {
	Verified    bool   `json:"verified"`
	PhoneNumber string `json:"phone_number"`
	Bearer      string `json:"Bearer"`
}
