package app

import "errors"

var (
	// ErrSessionNotFound is returned when no session matches the given id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrResumeNotFound is returned when no resume entry matches the given id.
	ErrResumeNotFound = errors.New("resume entry not found")

	// ErrTooManyResumes is returned when an upload would exceed the cap.
	ErrTooManyResumes = errors.New("too many resumes")

	// ErrStepBlocked is returned when an operation is not allowed at the
	// session's current step.
	ErrStepBlocked = errors.New("operation not allowed at current step")

	// ErrResultsNotReady is returned when results are requested before the
	// session reached the results step.
	ErrResultsNotReady = errors.New("match results not ready")
)
