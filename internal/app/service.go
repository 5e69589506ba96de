// Package service wires the player registry, the identity resolver and the
// validation engine into the operations exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cricxi/internal/adapters/mq/queue"
	"github.com/okian/cricxi/internal/adapters/mq/worker"
	"github.com/okian/cricxi/internal/adapters/repository"
	"github.com/okian/cricxi/internal/domain/model"
	"github.com/okian/cricxi/internal/domain/registry"
	"github.com/okian/cricxi/internal/domain/resolver"
	"github.com/okian/cricxi/internal/domain/rules"
	"github.com/okian/cricxi/internal/domain/types"
	"github.com/okian/cricxi/internal/domain/validation"
	"github.com/okian/cricxi/pkg/logger"
	"github.com/okian/cricxi/pkg/metrics"
)

const (
	defaultQueueSize       = 4096
	defaultMaxBatchRosters = 1000
)

// Stats is a snapshot of the service for monitoring.
type Stats struct {
	Started          bool     `json:"started"`
	Players          int      `json:"players"`
	Teams            []string `json:"teams"`
	Rules            []string `json:"rules"`
	Strategies       []string `json:"strategies"`
	WorkerCount      int      `json:"worker_count"`
	QueueLength      int      `json:"queue_length"`
	QueueCapacity    int      `json:"queue_capacity"`
	LinesResolved    int64    `json:"lines_resolved"`
	LinesMatched     int64    `json:"lines_matched"`
	RostersValidated int64    `json:"rosters_validated"`
	Uptime           string   `json:"uptime,omitempty"`
}

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine   *validation.Engine
	resolver atomic.Pointer[resolver.Resolver]
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	// Configuration
	source          repository.Source
	initial         *registry.Registry
	resolverOpts    []resolver.Option
	workerCount     int
	queueSize       int
	maxBatchRosters int

	// State
	started   bool
	startedAt time.Time
	resolved  atomic.Int64
	matched   atomic.Int64
	validated atomic.Int64

	logger logger.Logger
}

// New constructs a Service. Call Start before ValidateBatch to fan batches
// out to workers; everything else works on an unstarted service once a
// registry is installed.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       defaultQueueSize,
		maxBatchRosters: defaultMaxBatchRosters,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.engine == nil {
		s.engine = validation.NewEngine()
	}
	if s.initial != nil {
		s.install(s.initial)
	}
	return s
}

// Start loads the player pool if a source is configured and none is
// installed yet, then starts the batch workers. ctx bounds the load only;
// the workers run until Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting roster service...")

	if s.resolver.Load() == nil && s.source != nil {
		if _, err := s.loadPlayers(ctx); err != nil {
			return err
		}
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.engine)
	// Workers outlive ctx; Stop closes the queue and drains them.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "roster service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("rules", s.engine.Rules().Len()),
	)
	return nil
}

// Stop drains the batch workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping roster service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "roster service stopped")
}

// LoadPlayers reloads the pool from the configured source and swaps it in.
// In-flight requests finish against the registry they started with.
func (s *Service) LoadPlayers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPlayers(ctx)
}

func (s *Service) loadPlayers(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, ErrNoSource
	}
	reg, err := repository.LoadRegistry(ctx, s.source)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load_players")
		s.logger.Error(ctx, "loading players failed", logger.Error(err))
		return 0, err
	}
	s.install(reg)
	s.logger.Info(ctx, "player pool loaded",
		logger.Int("players", reg.Len()),
		logger.Strings("teams", reg.Teams()),
	)
	return reg.Len(), nil
}

// SetRegistry installs reg as the active player pool.
func (s *Service) SetRegistry(reg *registry.Registry) error {
	if reg == nil {
		return resolver.ErrNilRegistry
	}
	s.install(reg)
	return nil
}

func (s *Service) install(reg *registry.Registry) {
	r, err := resolver.New(reg, s.resolverOpts...)
	if err != nil {
		return
	}
	s.resolver.Store(r)
	metrics.UpdateRegistryPlayers(reg.Len())
}

// Registry returns the active player pool, or nil before one is loaded.
func (s *Service) Registry() *registry.Registry {
	if r := s.resolver.Load(); r != nil {
		return r.Registry()
	}
	return nil
}

// Ready reports whether a player pool is installed.
func (s *Service) Ready() bool { return s.resolver.Load() != nil }

// Resolve maps a batch of OCR lines onto canonical players.
func (s *Service) Resolve(ctx context.Context, b resolver.Batch) (resolver.Resolution, error) {
	r := s.resolver.Load()
	if r == nil {
		return resolver.Resolution{}, ErrNotReady
	}

	start := time.Now()
	res, err := r.Resolve(ctx, b)
	if err != nil {
		kind := "resolve"
		if errors.Is(err, resolver.ErrBatchTooLarge) {
			kind = "batch_too_large"
		}
		metrics.RecordErrorByComponent("resolver", kind)
		return resolver.Resolution{}, err
	}
	metrics.RecordResolveLatency(float64(time.Since(start).Microseconds()) / 1000)

	metrics.RecordLines("noise", res.Counts.Noise)
	metrics.RecordLines("not_a_name", res.Counts.NotAName)
	metrics.RecordLines("name", res.Counts.Name)
	var matched int
	for _, rr := range res.Results {
		metrics.RecordResolution(rr.IsMatched(), rr.Strategy, rr.Reason)
		if rr.IsMatched() {
			matched++
		}
	}
	s.resolved.Add(int64(len(b.Lines)))
	s.matched.Add(int64(matched))

	s.logger.Debug(ctx, "resolved batch",
		logger.Int("lines", len(b.Lines)),
		logger.Int("matched", matched),
		logger.Int("unmatched", len(res.Results)-matched),
		logger.Int("noise", res.Counts.Noise),
	)
	return res, nil
}

// RosterFromIDs builds a roster from canonical player ids. Unknown ids are
// kept as bare stubs so validation can report them.
func (s *Service) RosterFromIDs(id string, playerIDs []string, captainID, viceCaptainID string) (model.Roster, error) {
	reg := s.Registry()
	if reg == nil {
		return model.Roster{}, ErrNotReady
	}
	return reg.Roster(id, playerIDs, captainID, viceCaptainID), nil
}

// Validate evaluates one roster and returns its report.
func (s *Service) Validate(ctx context.Context, roster model.Roster, match model.MatchContext) (types.Report, error) {
	if err := ctx.Err(); err != nil {
		return types.Report{}, err
	}
	start := time.Now()
	in := s.input(roster, match)
	rep := s.engine.Report(in)

	metrics.RecordValidation(rep.IsValid, failedRules(rep.Verdict))
	metrics.RecordScore(rep.Score)
	metrics.RecordValidationLatency(float64(time.Since(start).Microseconds()) / 1000)
	s.validated.Add(1)

	s.logger.Debug(ctx, "validated roster",
		logger.String("roster", roster.ID),
		logger.Bool("valid", rep.IsValid),
		logger.Int("errors", len(rep.Errors)),
		logger.Float64("score", rep.Score),
	)
	return rep, nil
}

// ValidateBatch validates rosters against one match and partitions annotated
// copies. Rosters without an id get a generated one. On a started service
// the rosters fan out to the worker pool; otherwise, or when the queue is
// full, they are validated inline. Output order follows input order.
func (s *Service) ValidateBatch(ctx context.Context, rosters []model.Roster, match model.MatchContext) (types.Partition, error) {
	if err := ctx.Err(); err != nil {
		return types.Partition{}, err
	}
	if len(rosters) > s.maxBatchRosters {
		metrics.RecordErrorByComponent("service", "batch_too_large")
		return types.Partition{}, fmt.Errorf("%w: %d rosters, limit %d", ErrBatchTooLarge, len(rosters), s.maxBatchRosters)
	}
	start := time.Now()
	metrics.RecordBatchSize(len(rosters))

	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()

	annotated := make([]model.Roster, len(rosters))
	reply := make(chan queue.Outcome, len(rosters))
	pending, inline := 0, 0
	for i, r := range rosters {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		in := s.input(r, match)
		if started && q.Enqueue(ctx, queue.Job{Index: i, Input: in, Reply: reply}) {
			pending++
			continue
		}
		annotated[i] = s.annotate(in)
		inline++
	}

	for pending > 0 {
		select {
		case o := <-reply:
			annotated[o.Index] = o.Roster
			pending--
		case <-ctx.Done():
			return types.Partition{}, ctx.Err()
		}
	}

	out := types.Partition{Valid: []model.Roster{}, Invalid: []model.Roster{}}
	for _, r := range annotated {
		if r.IsValid {
			out.Valid = append(out.Valid, r)
		} else {
			out.Invalid = append(out.Invalid, r)
		}
	}
	s.validated.Add(int64(len(rosters)))
	metrics.RecordValidationLatency(float64(time.Since(start).Microseconds()) / 1000)

	s.logger.Debug(ctx, "validated batch",
		logger.Int("rosters", len(rosters)),
		logger.Int("valid", len(out.Valid)),
		logger.Int("inline", inline),
	)
	return out, nil
}

func (s *Service) annotate(in rules.Input) model.Roster {
	v := s.engine.Validate(in)
	metrics.RecordValidation(v.IsValid, failedRules(v))
	out := in.Roster.Clone()
	out.IsValid = v.IsValid
	out.Errors = v.Errors
	return out
}

func (s *Service) input(r model.Roster, match model.MatchContext) rules.Input {
	in := rules.Input{Roster: r, Match: match}
	if reg := s.Registry(); reg != nil {
		in.Pool = reg
	}
	return in
}

func failedRules(v types.Verdict) []string {
	ids := make([]string, len(v.Failures))
	for i, f := range v.Failures {
		ids[i] = f.RuleID
	}
	return ids
}

// Rules returns the active rules in evaluation order.
func (s *Service) Rules() []rules.Rule {
	return s.engine.Rules().Rules()
}

// Stats returns a snapshot for monitoring.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:          s.started,
		Teams:            []string{},
		Rules:            s.engine.Rules().IDs(),
		Strategies:       []string{},
		WorkerCount:      s.workerCount,
		QueueCapacity:    s.queueSize,
		LinesResolved:    s.resolved.Load(),
		LinesMatched:     s.matched.Load(),
		RostersValidated: s.validated.Load(),
	}
	if r := s.resolver.Load(); r != nil {
		st.Players = r.Registry().Len()
		st.Teams = r.Registry().Teams()
		st.Strategies = r.Strategies()
	}
	if s.started {
		st.QueueLength = s.queue.Len()
		st.Uptime = time.Since(s.startedAt).Truncate(time.Second).String()
	}
	return st
}
