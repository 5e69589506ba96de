package api

import (
	"net/http"

	"github.com/okian/cricxi/internal/domain/resolver"
)

// ResolveHandler maps OCR lines onto canonical players.
type ResolveHandler struct {
	deps         ResolveDependencies
	maxBodyBytes int64
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(deps ResolveDependencies, maxBodyBytes int64) *ResolveHandler {
	return &ResolveHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// resolveRequest is the body of POST /resolve.
type resolveRequest struct {
	Lines         []string `json:"lines"`
	OCRConfidence float64  `json:"ocr_confidence"`
}

// HandlePostResolve handles POST /resolve requests.
func (h *ResolveHandler) HandlePostResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_resolve"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resolveRequest
	if err := decode(w, r, h.maxBodyBytes, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	if req.Lines == nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Resolve(r.Context(), resolver.Batch{Lines: req.Lines, OCRConfidence: req.OCRConfidence})
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
