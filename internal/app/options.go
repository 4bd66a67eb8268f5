package app

import (
	"time"

	"github.com/pkoh123/carematch-ai/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxResumes sets the per-session upload cap.
func WithMaxResumes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResumes = n
		}
	}
}

// WithProgressDuration sets the fixed length of the staged matching run.
func WithProgressDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.progressDuration = d
		}
	}
}
