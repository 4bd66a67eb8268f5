// Package matchmaker coordinates match attempts against the matching
// service. Attempts start eagerly and are finalized later, so the visible
// wait is the longer of the service call and the staged progress run.
package matchmaker

import (
	"context"
	"sync"
	"time"

	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/pkg/logger"
	"github.com/pkoh123/carematch-ai/pkg/metrics"
)

// Matcher scores caregiver profiles against a requirements set.
type Matcher interface {
	Match(ctx context.Context, profiles []model.CaregiverProfile, reqs model.CareRequirements) ([]model.MatchResult, error)
}

// Outcome is the result of one finished match attempt.
type Outcome struct {
	Results []model.MatchResult
	Err     error
}

// Orchestrator tracks at most one pending match attempt. Starting a new
// attempt replaces any attempt still in flight; the replaced attempt keeps
// running but delivers into a channel nobody reads, so its result is
// dropped on the floor rather than cancelled.
//
// Each attempt carries a generation number. Finalize only collects when
// the caller's generation matches the pending one, so a stale finalize
// racing a resubmission can never drain a newer attempt's outcome.
type Orchestrator struct {
	matcher Matcher
	logger  logger.Logger

	mu         sync.Mutex
	pending    chan Outcome
	generation int
}

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an Orchestrator with configuration options.
func New(matcher Matcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		matcher: matcher,
		logger:  logger.Get().Named("matchmaker"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Start launches a match attempt in the background and returns its
// generation. Any attempt already in flight is abandoned and replaced
// atomically.
func (o *Orchestrator) Start(ctx context.Context, profiles []model.CaregiverProfile, reqs model.CareRequirements) int {
	// Buffered so an abandoned attempt's send never blocks its goroutine.
	ch := make(chan Outcome, 1)

	o.mu.Lock()
	if o.pending != nil {
		o.logger.Info(ctx, "match attempt abandoned by newer attempt")
		metrics.RecordMatchAbandoned()
	}
	o.pending = ch
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	metrics.RecordMatchAttempt()
	o.logger.Info(ctx, "match attempt started", logger.Int("profiles", len(profiles)))

	matcher := o.matcher
	go func() {
		start := time.Now()
		results, err := matcher.Match(ctx, profiles, reqs)
		elapsed := time.Since(start)

		metrics.RecordMatchLatency(float64(elapsed.Milliseconds()))
		if err != nil {
			metrics.RecordMatchFailure()
			o.logger.Error(ctx, "match attempt failed", logger.Error(err), logger.Any("duration", elapsed))
		} else {
			metrics.RecordMatchSuccess()
			o.logger.Info(ctx, "match attempt finished",
				logger.Int("results", len(results)),
				logger.Any("duration", elapsed),
			)
		}

		ch <- Outcome{Results: results, Err: err}
	}()

	return gen
}

// Finalize collects the outcome of the attempt identified by gen, blocking
// until the service call finishes if it has not already. It reports
// ok=false when no attempt is pending or the pending attempt is a newer
// one, which makes a second or stale Finalize a no-op.
func (o *Orchestrator) Finalize(ctx context.Context, gen int) (Outcome, bool) {
	o.mu.Lock()
	if o.pending == nil || o.generation != gen {
		o.mu.Unlock()
		return Outcome{}, false
	}
	ch := o.pending
	o.pending = nil
	o.mu.Unlock()

	select {
	case out := <-ch:
		return out, true
	case <-ctx.Done():
		return Outcome{Err: ctx.Err()}, true
	}
}

// Abandon drops any pending attempt without waiting for its result.
func (o *Orchestrator) Abandon() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pending != nil {
		o.pending = nil
		metrics.RecordMatchAbandoned()
	}
}

// Pending reports whether an attempt is currently in flight.
func (o *Orchestrator) Pending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending != nil
}
