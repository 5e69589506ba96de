// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/cricxi/internal/app"
	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/resolver"
	"github.com/okian/cricxi/internal/domain/rules"
	"github.com/okian/cricxi/internal/domain/types"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ResolveDependencies
	ValidateDependencies
	RulesProvider
	StatsProvider

	// Ready reports whether a player pool is loaded.
	Ready() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	resolveHandler  *ResolveHandler
	validateHandler *ValidateHandler
	rulesHandler    *RulesHandler
	maxBodyBytes    int64
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies; larger ones get 413.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.resolveHandler = NewResolveHandler(deps, s.maxBodyBytes)
	s.validateHandler = NewValidateHandler(deps, s.maxBodyBytes)
	s.rulesHandler = NewRulesHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/rules", MetricsMiddleware(s.rulesHandler.HandleGetRules, "rules"))
	mux.HandleFunc("/resolve", MetricsMiddleware(s.resolveHandler.HandlePostResolve, "resolve"))
	mux.HandleFunc("/validate", MetricsMiddleware(s.validateHandler.HandlePostValidate, "validate"))
	mux.HandleFunc("/validate/batch", MetricsMiddleware(s.validateHandler.HandlePostBatch, "validate_batch"))
}

// rosterSpec describes a roster either by full player records or by
// canonical ids looked up in the loaded pool.
type rosterSpec struct {
	ID            string         `json:"id"`
	Players       []model.Player `json:"players,omitempty"`
	PlayerIDs     []string       `json:"player_ids,omitempty"`
	CaptainID     string         `json:"captain_id,omitempty"`
	ViceCaptainID string         `json:"vice_captain_id,omitempty"`
}

func (s rosterSpec) build(deps ValidateDependencies) (model.Roster, error) {
	if len(s.PlayerIDs) > 0 {
		if len(s.Players) > 0 {
			return model.Roster{}, fmt.Errorf("%w: roster %q gives both players and player_ids", ErrBadRequest, s.ID)
		}
		return deps.RosterFromIDs(s.ID, s.PlayerIDs, s.CaptainID, s.ViceCaptainID)
	}
	return model.Roster{
		ID:            s.ID,
		Players:       s.Players,
		CaptainID:     s.CaptainID,
		ViceCaptainID: s.ViceCaptainID,
	}, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decode reads a JSON body capped at limit bytes.
func decode(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: %w", ErrTooLarge, err)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// writeFailure maps service and domain errors onto status codes.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrTooLarge),
		errors.Is(err, resolver.ErrBatchTooLarge),
		errors.Is(err, service.ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", WrapKind(op, ErrNotReady, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// Interfaces consumed by individual handlers.
type (
	ResolveDependencies interface {
		Resolve(ctx context.Context, b resolver.Batch) (resolver.Resolution, error)
	}

	ValidateDependencies interface {
		RosterFromIDs(id string, playerIDs []string, captainID, viceCaptainID string) (model.Roster, error)
		Validate(ctx context.Context, r model.Roster, match model.MatchContext) (types.Report, error)
		ValidateBatch(ctx context.Context, rosters []model.Roster, match model.MatchContext) (types.Partition, error)
	}

	RulesProvider interface {
		Rules() []rules.Rule
	}

	StatsProvider interface {
		Stats() service.Stats
	}
)
