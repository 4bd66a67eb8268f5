// Package app implements the caregiver matching wizard: session management,
// resume intake and processing, and the staged matching run.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pkoh123/carematch-ai/internal/adapters/remote"
	"github.com/pkoh123/carematch-ai/internal/adapters/repository"
	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/internal/domain/resume"
	"github.com/pkoh123/carematch-ai/internal/domain/wizard"
	"github.com/pkoh123/carematch-ai/internal/matchmaker"
	"github.com/pkoh123/carematch-ai/internal/processor"
	"github.com/pkoh123/carematch-ai/internal/progress"
	"github.com/pkoh123/carematch-ai/pkg/logger"
	"github.com/pkoh123/carematch-ai/pkg/metrics"
)

// matchFailureMessage is shown when a failed match carries no usable detail.
const matchFailureMessage = "Matching failed"

// defaultMaxResumes caps uploads per session.
const defaultMaxResumes = 5

// Backend is the parsing and matching service behind the wizard, either the
// remote CareMatch API or the in-process Gemini implementation.
type Backend interface {
	processor.Parser
	matchmaker.Matcher
	Health(ctx context.Context) (bool, error)
}

// Upload is one accepted resume file.
type Upload struct {
	Name string
	Data []byte
}

// Service owns all wizard sessions.
type Service struct {
	backend          Backend
	logger           logger.Logger
	maxResumes       int
	progressDuration time.Duration

	sessions syncSessions
}

// New creates a Service with configuration options.
func New(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend:          backend,
		logger:           logger.Get().Named("app"),
		maxResumes:       defaultMaxResumes,
		progressDuration: progress.DefaultDuration,
	}
	s.sessions.m = make(map[string]*Session)

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateSession starts a fresh wizard session at the upload step.
func (s *Service) CreateSession(ctx context.Context) View {
	store := repository.NewMemStore()

	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		step:      wizard.StepUpload,
		store:     store,
		proc:      processor.New(store, s.backend),
		matches:   matchmaker.New(s.backend),
		progress:  progress.New(progress.WithDuration(s.progressDuration)),
	}

	s.sessions.put(sess)

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(s.sessions.count())
	s.logger.Info(ctx, "session created", logger.String("sessionID", sess.ID))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(ctx)
}

// Snapshot returns the current state of a session.
func (s *Service) Snapshot(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(ctx), nil
}

// AddResumes accepts up to the per-session cap of resume files. Each entry
// starts pending and is parsed in the background; entry state is patched as
// the parse progresses.
func (s *Service) AddResumes(ctx context.Context, sessionID string, uploads []Upload) (View, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != wizard.StepUpload {
		return View{}, ErrStepBlocked
	}
	if sess.store.Count(ctx)+len(uploads) > s.maxResumes {
		return View{}, ErrTooManyResumes
	}

	for _, up := range uploads {
		entry := resume.New(uuid.NewString(), up.Name, int64(len(up.Data)))
		sess.store.Add(ctx, entry)
		metrics.RecordResumeUploaded()

		s.logger.Info(ctx, "resume accepted",
			logger.String("sessionID", sess.ID),
			logger.String("resumeID", entry.ID),
			logger.String("filename", up.Name),
		)

		// Detached from the request context; uploads keep parsing after
		// the HTTP response goes out.
		go sess.proc.Process(context.WithoutCancel(ctx), entry.ID, up.Name, up.Data)
	}

	metrics.UpdateTrackedResumes(s.trackedResumes(ctx))
	return sess.view(ctx), nil
}

// RemoveResume drops one entry, whatever its status. A parse still running
// for it finishes into the void.
func (s *Service) RemoveResume(ctx context.Context, sessionID, resumeID string) (View, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != wizard.StepUpload {
		return View{}, ErrStepBlocked
	}
	if !sess.store.Remove(ctx, resumeID) {
		return View{}, ErrResumeNotFound
	}

	metrics.RecordResumeRemoved()
	metrics.UpdateTrackedResumes(s.trackedResumes(ctx))
	s.logger.Info(ctx, "resume removed",
		logger.String("sessionID", sess.ID),
		logger.String("resumeID", resumeID),
	)

	return sess.view(ctx), nil
}

// SubmitRequirements stores the employer requirements, moves the session to
// the matching step and starts the match run immediately. The staged
// progress run finalizes the attempt when it completes, so the visible wait
// is the longer of the service call and the run.
func (s *Service) SubmitRequirements(ctx context.Context, sessionID string, reqs model.CareRequirements) (View, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return View{}, err
	}

	if err := reqs.Validate(); err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != wizard.StepRequirements {
		return View{}, ErrStepBlocked
	}

	sess.requirements = &reqs
	s.startMatching(ctx, sess)

	return sess.view(ctx), nil
}

// startMatching transitions to the matching step and launches the eager
// match plus the staged progress run. Caller holds sess.mu and has verified
// requirements are present.
func (s *Service) startMatching(ctx context.Context, sess *Session) {
	sess.matchError = ""
	sess.results = nil
	sess.step = wizard.StepMatching
	metrics.RecordStepTransition(string(wizard.StepMatching))

	profiles := sess.completedProfiles(ctx)
	reqs := *sess.requirements

	bg := context.WithoutCancel(ctx)
	gen := sess.matches.Start(bg, profiles, reqs)
	sess.attemptGen = gen
	sess.progress.Start(bg, func() {
		s.FinalizeMatch(bg, sess.ID, gen)
	})

	s.logger.Info(ctx, "matching started",
		logger.String("sessionID", sess.ID),
		logger.Int("profiles", len(profiles)),
	)
}

// FinalizeMatch collects the match attempt identified by gen and applies
// its outcome: results and the results step on success, back to
// requirements with a user-facing message on failure. Safe to call when
// nothing is pending or when gen belongs to a superseded attempt.
func (s *Service) FinalizeMatch(ctx context.Context, sessionID string, gen int) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return
	}

	out, ok := sess.matches.Finalize(ctx, gen)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// A reset, backwards step, or resubmission may have raced the finalize.
	if sess.step != wizard.StepMatching || sess.attemptGen != gen {
		return
	}

	if out.Err != nil {
		sess.results = nil
		sess.matchError = matchErrorMessage(out.Err)
		sess.step = wizard.StepRequirements
		metrics.RecordStepTransition(string(wizard.StepRequirements))
		s.logger.Warn(ctx, "matching failed",
			logger.String("sessionID", sess.ID),
			logger.Error(out.Err),
		)
		return
	}

	sess.results = out.Results
	sess.matchError = ""
	sess.step = wizard.StepResults
	metrics.RecordStepTransition(string(wizard.StepResults))
	s.logger.Info(ctx, "matching finished",
		logger.String("sessionID", sess.ID),
		logger.Int("results", len(out.Results)),
	)
}

// Next advances one step if the continue guard allows it. Advancing out of
// the requirements step re-runs matching with the stored requirements.
func (s *Service) Next(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !wizard.CanContinue(sess.step, sess.gate(ctx)) {
		return View{}, ErrStepBlocked
	}

	if sess.step == wizard.StepRequirements {
		s.startMatching(ctx, sess)
		return sess.view(ctx), nil
	}

	sess.step = wizard.Next(sess.step)
	metrics.RecordStepTransition(string(sess.step))
	return sess.view(ctx), nil
}

// Prev steps backwards, clamped at upload. No guard applies. Leaving the
// matching step abandons the attempt in flight.
func (s *Service) Prev(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step == wizard.StepMatching {
		sess.matches.Abandon()
		sess.progress.Cancel()
	}

	sess.step = wizard.Prev(sess.step)
	metrics.RecordStepTransition(string(sess.step))
	return sess.view(ctx), nil
}

// GoTo jumps to an arbitrary step without guards.
func (s *Service) GoTo(ctx context.Context, sessionID string, step wizard.Step) (View, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step == wizard.StepMatching && step != wizard.StepMatching {
		sess.matches.Abandon()
		sess.progress.Cancel()
	}

	sess.step = step
	metrics.RecordStepTransition(string(step))
	return sess.view(ctx), nil
}

// Reset returns the session to a pristine upload step, dropping resumes,
// requirements, results and any match attempt in flight.
func (s *Service) Reset(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.store.Clear(ctx)
	sess.requirements = nil
	sess.results = nil
	sess.matchError = ""
	sess.matches.Abandon()
	sess.progress.Cancel()
	sess.step = wizard.StepUpload

	metrics.RecordWizardReset()
	metrics.UpdateTrackedResumes(s.trackedResumes(ctx))
	s.logger.Info(ctx, "session reset", logger.String("sessionID", sess.ID))

	return sess.view(ctx), nil
}

// Results returns the ranked matches once the session reached the results
// step.
func (s *Service) Results(ctx context.Context, sessionID string) ([]model.MatchResult, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != wizard.StepResults {
		return nil, ErrResultsNotReady
	}
	return append([]model.MatchResult(nil), sess.results...), nil
}

// Progress reports the staged matching run state.
func (s *Service) Progress(ctx context.Context, sessionID string) (progress.Snapshot, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	return sess.progress.Snapshot(), nil
}

// Health probes the backing parse/match service.
func (s *Service) Health(ctx context.Context) (bool, error) {
	return s.backend.Health(ctx)
}

// Stats summarizes what the service is tracking.
type Stats struct {
	Sessions       int            `json:"sessions"`
	Resumes        int            `json:"resumes"`
	ResumesByState map[string]int `json:"resumesByState"`
}

// GetStats returns live counts across all sessions.
func (s *Service) GetStats(ctx context.Context) Stats {
	stats := Stats{ResumesByState: make(map[string]int)}

	for _, sess := range s.sessions.all() {
		stats.Sessions++
		sess.mu.Lock()
		for _, e := range sess.store.List(ctx) {
			stats.Resumes++
			stats.ResumesByState[string(e.Status)]++
		}
		sess.mu.Unlock()
	}

	return stats
}

// trackedResumes counts entries across sessions for the gauge.
func (s *Service) trackedResumes(ctx context.Context) int {
	total := 0
	for _, sess := range s.sessions.all() {
		total += sess.store.Count(ctx)
	}
	return total
}

// matchErrorMessage converts a match failure into the message users see.
// Backend detail messages pass through; anything else gets the generic one.
func matchErrorMessage(err error) string {
	var backendErr *remote.BackendError
	if errors.As(err, &backendErr) && backendErr.Detail != "" {
		return backendErr.Detail
	}
	return matchFailureMessage
}
