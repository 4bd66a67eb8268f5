// Package processor drives the asynchronous parse lifecycle of uploaded
// resumes: pending -> processing -> completed or error.
package processor

import (
	"context"
	"errors"
	"time"

	"github.com/pkoh123/carematch-ai/internal/adapters/remote"
	"github.com/pkoh123/carematch-ai/internal/adapters/repository"
	"github.com/pkoh123/carematch-ai/internal/ai/gemini"
	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/internal/domain/resume"
	"github.com/pkoh123/carematch-ai/pkg/logger"
	"github.com/pkoh123/carematch-ai/pkg/metrics"
)

// failureMessage is what users see when a parse failure carries no message
// of its own.
const failureMessage = "Failed to process resume"

// Parser turns a raw resume payload into extracted text and a profile.
type Parser interface {
	ParseResume(ctx context.Context, id, filename string, payload []byte) (string, *model.CaregiverProfile, error)
}

// Processor runs resume parsing against a store, patching entry state as the
// work progresses.
type Processor struct {
	store  repository.Store
	parser Parser
	logger logger.Logger
}

// New creates a Processor with configuration options.
func New(store repository.Store, parser Parser, opts ...Option) *Processor {
	p := &Processor{
		store:  store,
		parser: parser,
		logger: logger.Get().Named("processor"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process parses one uploaded resume. The entry is marked processing before
// any I/O starts, then patched to its terminal state in a single update so
// readers never observe a completed entry without its text and profile.
// Updates against an entry that was removed mid-flight are silently dropped
// by the store.
func (p *Processor) Process(ctx context.Context, id, filename string, payload []byte) {
	p.store.UpdateOne(ctx, id, resume.StatusPatch(resume.StatusProcessing))

	start := time.Now()
	text, profile, err := p.parser.ParseResume(ctx, id, filename, payload)
	elapsed := time.Since(start)

	metrics.RecordParseLatency(float64(elapsed.Milliseconds()))

	if err != nil {
		p.logger.Error(ctx, "resume parse failed",
			logger.String("resumeID", id),
			logger.String("filename", filename),
			logger.Error(err),
		)
		metrics.RecordResumeFailed()
		metrics.RecordErrorByComponent("processor", "parse_failed")

		p.store.UpdateOne(ctx, id, resume.ErrorPatch(errorMessage(err)))
		return
	}

	p.logger.Info(ctx, "resume parsed",
		logger.String("resumeID", id),
		logger.String("filename", filename),
		logger.Int("textLength", len(text)),
		logger.Any("duration", elapsed),
	)
	metrics.RecordResumeProcessed()

	p.store.UpdateOne(ctx, id, resume.CompletedPatch(text, profile))
}

// errorMessage converts a parse failure into the message users see.
// Backend detail messages and known extraction failures pass through;
// anything else gets the generic one.
func errorMessage(err error) string {
	var backendErr *remote.BackendError
	if errors.As(err, &backendErr) && backendErr.Detail != "" {
		return backendErr.Detail
	}
	if errors.Is(err, gemini.ErrNoText) {
		return "No text content found in PDF"
	}
	return failureMessage
}
