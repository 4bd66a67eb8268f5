// Package resume defines resume entries and their processing lifecycle.
package resume

import "github.com/pkoh123/carematch-ai/internal/domain/model"

// Status is the processing state of one resume entry.
type Status string

// Lifecycle states. Completed and Error are terminal; a failed entry is
// never retried, the user removes and re-adds it.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// transitions is the legal edge set of the per-entry state machine.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusError},
	StatusCompleted:  {},
	StatusError:      {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s is a final status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// SourceFile references the uploaded payload. Never mutated after creation.
type SourceFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Entry is one uploaded resume plus its processing status and, once
// completed, its extracted text and caregiver profile.
//
// Invariant: when Status is Completed both ExtractedText and Profile are
// present and ErrorMessage is empty; when Status is Error only ErrorMessage
// is present; while Pending/Processing all three are absent.
type Entry struct {
	ID            string                  `json:"id"`
	SourceFile    SourceFile              `json:"sourceFile"`
	Status        Status                  `json:"status"`
	ExtractedText string                  `json:"extractedText,omitempty"`
	Profile       *model.CaregiverProfile `json:"profile,omitempty"`
	ErrorMessage  string                  `json:"errorMessage,omitempty"`
}

// New creates a Pending entry for an accepted upload.
func New(id, name string, size int64) Entry {
	return Entry{
		ID:         id,
		SourceFile: SourceFile{Name: name, Size: size},
		Status:     StatusPending,
	}
}

// Patch carries a partial update merged into an entry by the store. Nil
// fields are left untouched.
type Patch struct {
	Status        *Status
	ExtractedText *string
	Profile       *model.CaregiverProfile
	ErrorMessage  *string
}

// Apply merges the patch into a copy of e and returns it.
func (p Patch) Apply(e Entry) Entry {
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.ExtractedText != nil {
		e.ExtractedText = *p.ExtractedText
	}
	if p.Profile != nil {
		e.Profile = p.Profile
	}
	if p.ErrorMessage != nil {
		e.ErrorMessage = *p.ErrorMessage
	}
	return e
}

// StatusPatch is a convenience constructor for a status-only patch.
func StatusPatch(s Status) Patch {
	return Patch{Status: &s}
}

// CompletedPatch builds the atomic terminal patch for a successful parse:
// status, extracted text and profile land in a single update.
func CompletedPatch(text string, profile *model.CaregiverProfile) Patch {
	s := StatusCompleted
	return Patch{Status: &s, ExtractedText: &text, Profile: profile}
}

// ErrorPatch builds the terminal patch for a failed parse.
func ErrorPatch(msg string) Patch {
	s := StatusError
	return Patch{Status: &s, ErrorMessage: &msg}
}
