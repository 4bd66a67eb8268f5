package app

import (
	"context"
	"sync"
	"time"

	"github.com/pkoh123/carematch-ai/internal/adapters/repository"
	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/internal/domain/resume"
	"github.com/pkoh123/carematch-ai/internal/domain/wizard"
	"github.com/pkoh123/carematch-ai/internal/matchmaker"
	"github.com/pkoh123/carematch-ai/internal/processor"
	"github.com/pkoh123/carematch-ai/internal/progress"
)

// Session is one employer's trip through the wizard. All state behind mu;
// the store, orchestrator and runner carry their own locks.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	step         wizard.Step
	requirements *model.CareRequirements
	results      []model.MatchResult
	matchError   string
	attemptGen   int

	store    repository.Store
	proc     *processor.Processor
	matches  *matchmaker.Orchestrator
	progress *progress.Runner
}

// View is the read-only snapshot of a session handed to the API layer.
type View struct {
	ID           string                  `json:"id"`
	Step         wizard.Step             `json:"step"`
	Resumes      []resume.Entry          `json:"resumes"`
	Requirements *model.CareRequirements `json:"requirements,omitempty"`
	Results      []model.MatchResult     `json:"results,omitempty"`
	MatchError   string                  `json:"matchError,omitempty"`
	CanContinue  bool                    `json:"canContinue"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// gate builds the continue-guard input from current session state.
// Caller holds s.mu.
func (s *Session) gate(ctx context.Context) wizard.Gate {
	entries := s.store.List(ctx)

	allCompleted := len(entries) > 0
	for _, e := range entries {
		if e.Status != resume.StatusCompleted {
			allCompleted = false
			break
		}
	}

	return wizard.Gate{
		ResumeCount:     len(entries),
		AllCompleted:    allCompleted,
		HasRequirements: s.requirements != nil,
	}
}

// view assembles a View. Caller holds s.mu.
func (s *Session) view(ctx context.Context) View {
	return View{
		ID:           s.ID,
		Step:         s.step,
		Resumes:      s.store.List(ctx),
		Requirements: s.requirements,
		Results:      append([]model.MatchResult(nil), s.results...),
		MatchError:   s.matchError,
		CanContinue:  wizard.CanContinue(s.step, s.gate(ctx)),
		CreatedAt:    s.CreatedAt,
	}
}

// completedProfiles collects the profiles of all completed entries in
// upload order. Caller holds s.mu.
func (s *Session) completedProfiles(ctx context.Context) []model.CaregiverProfile {
	entries := s.store.List(ctx)
	profiles := make([]model.CaregiverProfile, 0, len(entries))
	for _, e := range entries {
		if e.Status == resume.StatusCompleted && e.Profile != nil {
			profiles = append(profiles, *e.Profile)
		}
	}
	return profiles
}

// syncSessions is the session registry.
type syncSessions struct {
	mu sync.RWMutex
	m  map[string]*Session
}

func (r *syncSessions) put(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[sess.ID] = sess
}

func (r *syncSessions) get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.m[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (r *syncSessions) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

func (r *syncSessions) all() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*Session, 0, len(r.m))
	for _, sess := range r.m {
		sessions = append(sessions, sess)
	}
	return sessions
}
