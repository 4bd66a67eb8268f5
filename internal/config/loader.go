package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if CAREMATCH_CONFIG is set
//  3. env (prefix CAREMATCH_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("CAREMATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CAREMATCH_ADDR, CAREMATCH_BACKEND_URL, ...
	// Map env keys like CAREMATCH_BACKEND_URL -> backend_url (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("CAREMATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "carematch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.AIBackend {
	case BackendRemote, BackendGemini:
	default:
		return nil, fmt.Errorf("%w: unknown ai_backend %q", ErrInvalidConfig, cfg.AIBackend)
	}
	if cfg.AIBackend == BackendRemote && cfg.BackendURL == "" {
		return nil, fmt.Errorf("%w: backend_url must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
