package api

import (
	"net/http"

	"github.com/okian/cricxi/internal/domain/model"
)

// ValidateHandler validates single rosters and batches.
type ValidateHandler struct {
	deps         ValidateDependencies
	maxBodyBytes int64
}

// NewValidateHandler creates a new validate handler.
func NewValidateHandler(deps ValidateDependencies, maxBodyBytes int64) *ValidateHandler {
	return &ValidateHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// validateRequest is the body of POST /validate.
type validateRequest struct {
	Roster rosterSpec         `json:"roster"`
	Match  model.MatchContext `json:"match"`
}

// batchRequest is the body of POST /validate/batch.
type batchRequest struct {
	Rosters []rosterSpec       `json:"rosters"`
	Match   model.MatchContext `json:"match"`
}

// HandlePostValidate handles POST /validate requests. Invalid rosters are
// still a 200: the verdict is the payload.
func (h *ValidateHandler) HandlePostValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_validate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req validateRequest
	if err := decode(w, r, h.maxBodyBytes, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	roster, err := req.Roster.build(h.deps)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	rep, err := h.deps.Validate(r.Context(), roster, req.Match)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandlePostBatch handles POST /validate/batch requests.
func (h *ValidateHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_validate_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := decode(w, r, h.maxBodyBytes, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	rosters := make([]model.Roster, len(req.Rosters))
	for i, spec := range req.Rosters {
		roster, err := spec.build(h.deps)
		if err != nil {
			writeFailure(w, op, err)
			return
		}
		rosters[i] = roster
	}
	out, err := h.deps.ValidateBatch(r.Context(), rosters, req.Match)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
