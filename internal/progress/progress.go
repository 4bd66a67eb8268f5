// Package progress runs the staged matching progress timeline. The run has
// a fixed duration regardless of how fast the matching service answers, so
// the combined wait a user sees is the longer of the two.
package progress

import (
	"context"
	"sync"
	"time"
)

// DefaultDuration is the staged run length when none is configured.
const DefaultDuration = 6 * time.Second

// Stage is one labelled segment of the run. Until is the fraction of the
// total duration at which the stage ends.
type Stage struct {
	Label string  `json:"label"`
	Until float64 `json:"-"`
}

// defaultStages mirrors the staged feedback shown while matching runs.
var defaultStages = []Stage{
	{Label: "Analyzing care requirements", Until: 0.25},
	{Label: "Reviewing caregiver profiles", Until: 0.55},
	{Label: "Scoring candidates", Until: 0.85},
	{Label: "Preparing results", Until: 1.0},
}

// Snapshot is the externally visible state of a run.
type Snapshot struct {
	Running bool    `json:"running"`
	Percent float64 `json:"percent"`
	Stage   string  `json:"stage,omitempty"`
}

// Runner owns at most one active run. Starting a new run supersedes the
// previous one; a superseded run's completion callback never fires.
type Runner struct {
	duration time.Duration
	stages   []Stage

	mu         sync.Mutex
	generation int
	startedAt  time.Time
	running    bool
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithDuration sets the fixed run duration.
func WithDuration(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.duration = d
		}
	}
}

// WithStages replaces the default stage timeline.
func WithStages(stages []Stage) Option {
	return func(r *Runner) {
		if len(stages) > 0 {
			r.stages = stages
		}
	}
}

// New creates a Runner with configuration options.
func New(opts ...Option) *Runner {
	r := &Runner{
		duration: DefaultDuration,
		stages:   defaultStages,
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start begins a run and invokes onComplete once the full duration has
// elapsed, unless the run was superseded or the context cancelled first.
func (r *Runner) Start(ctx context.Context, onComplete func()) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.startedAt = time.Now()
	r.running = true
	r.mu.Unlock()

	timer := time.NewTimer(r.duration)
	go func() {
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			r.reset(gen)
			return
		}

		if !r.stop(gen) {
			return
		}
		if onComplete != nil {
			onComplete()
		}
	}()
}

// stop ends the run for gen. Returns false when a newer run took over.
func (r *Runner) stop(gen int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation != gen {
		return false
	}
	r.running = false
	return true
}

// reset ends the run for gen and clears its trace, so the runner reads as
// idle rather than completed. No-op when a newer run took over.
func (r *Runner) reset(gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation != gen {
		return
	}
	r.running = false
	r.startedAt = time.Time{}
}

// Cancel supersedes any active run without firing its callback. A
// cancelled run reads as idle, not as completed.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	r.running = false
	r.startedAt = time.Time{}
}

// Snapshot reports the current run state. A finished run reads as 100%.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		if r.startedAt.IsZero() {
			return Snapshot{}
		}
		return Snapshot{Percent: 100}
	}

	frac := float64(time.Since(r.startedAt)) / float64(r.duration)
	if frac > 1 {
		frac = 1
	}

	stage := r.stages[len(r.stages)-1].Label
	for _, s := range r.stages {
		if frac <= s.Until {
			stage = s.Label
			break
		}
	}

	return Snapshot{
		Running: true,
		Percent: frac * 100,
		Stage:   stage,
	}
}
