package api

import (
	"errors"
	"fmt"

	"github.com/pkoh123/carematch-ai/internal/app"
	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/internal/domain/wizard"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotPDF     = errors.New("only .pdf files are accepted")
	ErrNoFiles    = errors.New("no files in upload")
)

// NewKind tags err with the operation it happened in.
func NewKind(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind tags err with an operation and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, app.ErrSessionNotFound) || errors.Is(err, app.ErrResumeNotFound)
}

func isStepBlocked(err error) bool {
	return errors.Is(err, app.ErrStepBlocked)
}

func isNotReady(err error) bool {
	return errors.Is(err, app.ErrResultsNotReady)
}

func isBadRequest(err error) bool {
	switch {
	case errors.Is(err, app.ErrTooManyResumes),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrNotPDF),
		errors.Is(err, ErrNoFiles),
		errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, model.ErrMissingCareType),
		errors.Is(err, model.ErrUnknownCareType),
		errors.Is(err, model.ErrMissingLanguages),
		errors.Is(err, model.ErrMissingExperienceLevel):
		return true
	}
	return false
}
