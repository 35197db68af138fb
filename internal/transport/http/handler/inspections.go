package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inspection-api/internal/application/inspection"
	"github.com/inspection-api/internal/pkg/token"
	"github.com/inspection-api/internal/pkg/validate"
)

// InspectionHandler handles inspection-link endpoints: the authenticated
// issuance/listing side and the public token-gated intake side.
type InspectionHandler struct {
	svc inspection.Service
}

func NewInspectionHandler(svc inspection.Service) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

// Create issues a new inspection link. Authenticated.
func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inspection.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	result, err := h.svc.CreateLink(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// List returns a company's inspection records. Authenticated.
func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "company_id is required")
		return
	}
	items, err := h.svc.ListByCompany(r.Context(), companyID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

// pathToken extracts the capability token and rejects anything that is not
// even token-shaped, so garbage never reaches the database. Malformed and
// unknown tokens are deliberately indistinguishable to the caller.
func pathToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	tok := chi.URLParam(r, "token")
	if !token.IsWellFormed(tok) {
		writeError(w, http.StatusNotFound, "inspection not found")
		return "", false
	}
	return tok, true
}

// Validate is the public validation gate behind the intake page.
func (h *InspectionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	tok, ok := pathToken(w, r)
	if !ok {
		return
	}
	status, err := h.svc.ValidateToken(r.Context(), tok)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// UploadURL mints a presigned PUT URL for the token's single upload. Public.
func (h *InspectionHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	tok, ok := pathToken(w, r)
	if !ok {
		return
	}
	var body struct {
		FileExtension string `json:"file_extension"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target, status, err := h.svc.MintUploadURL(r.Context(), tok, body.FileExtension)
	if err != nil {
		httpError(w, err)
		return
	}
	if target == nil {
		// Same verdict shape the validation gate returns.
		writeJSON(w, http.StatusOK, status)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// Complete marks the upload finished. Public (token-gated).
func (h *InspectionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	tok, ok := pathToken(w, r)
	if !ok {
		return
	}
	var req inspection.CompleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Token = tok
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	record, err := h.svc.CompleteUpload(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"inspection_id": record.InspectionID,
		"status":        record.Status,
		"completed_at":  record.CompletedAt,
	})
}
