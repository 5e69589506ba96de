package api

import (
	"net/http"
)

// RulesHandler lists the active roster rules.
type RulesHandler struct {
	deps RulesProvider
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(deps RulesProvider) *RulesHandler {
	return &RulesHandler{deps: deps}
}

type ruleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleGetRules handles GET /rules requests.
func (h *RulesHandler) HandleGetRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	active := h.deps.Rules()
	out := make([]ruleResponse, len(active))
	for i, rule := range active {
		out[i] = ruleResponse{ID: rule.ID, Name: rule.Name, Description: rule.Description}
	}
	writeJSON(w, http.StatusOK, out)
}
