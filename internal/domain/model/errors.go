package model

import "errors"

// Sentinel kinds for requirements validation.
var (
	ErrMissingCareType        = errors.New("care type is required")
	ErrUnknownCareType        = errors.New("unknown care type")
	ErrMissingLanguages       = errors.New("at least one language is required")
	ErrMissingExperienceLevel = errors.New("experience level is required")
)
