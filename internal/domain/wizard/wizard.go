// Package wizard defines the four-step employer workflow state machine.
package wizard

import "strings"

// Step is one position in the fixed wizard sequence.
type Step string

// Wizard steps in order. The sequence is linear: Upload -> Requirements ->
// Matching -> Results.
const (
	StepUpload       Step = "upload"
	StepRequirements Step = "requirements"
	StepMatching     Step = "matching"
	StepResults      Step = "results"
)

// Adjacency tables. Missing keys clamp to themselves, so Next at Results and
// Prev at Upload are no-ops.
var (
	next = map[Step]Step{
		StepUpload:       StepRequirements,
		StepRequirements: StepMatching,
		StepMatching:     StepResults,
	}
	prev = map[Step]Step{
		StepRequirements: StepUpload,
		StepMatching:     StepRequirements,
		StepResults:      StepMatching,
	}
)

// Steps returns the full ordered sequence.
func Steps() []Step {
	return []Step{StepUpload, StepRequirements, StepMatching, StepResults}
}

// Next returns the step after s, clamped at Results.
func Next(s Step) Step {
	if n, ok := next[s]; ok {
		return n
	}
	return s
}

// Prev returns the step before s, clamped at Upload.
func Prev(s Step) Step {
	if p, ok := prev[s]; ok {
		return p
	}
	return s
}

// Valid reports whether s names a known step.
func Valid(s Step) bool {
	switch s {
	case StepUpload, StepRequirements, StepMatching, StepResults:
		return true
	}
	return false
}

// Parse converts a string into a Step, for jump targets from the API.
func Parse(s string) (Step, error) {
	step := Step(strings.ToLower(strings.TrimSpace(s)))
	if !Valid(step) {
		return "", ErrUnknownStep
	}
	return step, nil
}

// Gate describes what the continue guard needs to know about the session.
// The machine itself enforces no guards; the presentation boundary evaluates
// CanContinue before offering a forward transition.
type Gate struct {
	ResumeCount     int
	AllCompleted    bool
	HasRequirements bool
}

// CanContinue reports whether a user-initiated forward transition from s is
// allowed. Matching never user-advances (only the match finalization moves
// it) and Results is terminal for forward motion.
func CanContinue(s Step, g Gate) bool {
	switch s {
	case StepUpload:
		return g.ResumeCount > 0 && g.AllCompleted
	case StepRequirements:
		return g.HasRequirements
	default:
		return false
	}
}
