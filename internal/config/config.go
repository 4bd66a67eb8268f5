// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "context"

// Backend selection values for AIBackend.
const (
	BackendRemote = "remote"
	BackendGemini = "gemini"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AIBackend selects the parse/match backend: "remote" or "gemini".
	AIBackend string `koanf:"ai_backend"`

	// BackendURL is the CareMatch backend base URL for the remote backend.
	BackendURL string `koanf:"backend_url"`

	// BackendTimeoutSec bounds one backend call.
	BackendTimeoutSec int `koanf:"backend_timeout_sec"`

	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel overrides the default Gemini model.
	GeminiModel string `koanf:"gemini_model"`

	// MaxResumes caps uploads per session.
	MaxResumes int `koanf:"max_resumes"`

	// ProgressDurationMS fixes the staged matching run length.
	ProgressDurationMS int `koanf:"progress_duration_ms"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		AIBackend:          BackendRemote,
		BackendURL:         "http://localhost:8000",
		BackendTimeoutSec:  120,
		MaxResumes:         5,
		ProgressDurationMS: 6000,
	}
}
