// Package remote implements the HTTP client for the CareMatch backend,
// which hosts the resume parsing and caregiver matching services.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/pkg/logger"
)

// Default client configuration constants.
const (
	defaultBaseURL = "http://localhost:8000"
	// Parse and match calls sit on an LLM; give them room.
	defaultTimeout = 120 * time.Second
)

// Client talks to the CareMatch backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the backend base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a backend client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger.Get().Named("remote"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// parseResumeResponse mirrors the backend's POST /api/parse-resume schema.
type parseResumeResponse struct {
	ExtractedText string                 `json:"extractedText"`
	Profile       model.CaregiverProfile `json:"profile"`
}

// matchRequest mirrors the backend's POST /api/match schema.
type matchRequest struct {
	Profiles     []model.CaregiverProfile `json:"profiles"`
	Requirements model.CareRequirements   `json:"requirements"`
}

// errorResponse is the backend's error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

// ParseResume uploads one resume payload and returns the extracted text and
// the structured caregiver profile. The id travels with the request so the
// returned profile can be correlated with its entry.
func (c *Client) ParseResume(ctx context.Context, id, filename string, payload []byte) (string, *model.CaregiverProfile, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return "", nil, fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/parse-resume", &body)
	if err != nil {
		return "", nil, fmt.Errorf("build parse request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	c.logger.Debug(ctx, "parse resume request",
		logger.String("resumeID", id),
		logger.String("filename", filename),
		logger.Int("size", len(payload)),
	)

	var parsed parseResumeResponse
	if err := c.do(req, &parsed); err != nil {
		return "", nil, err
	}

	profile := parsed.Profile
	if profile.ID == "" {
		profile.ID = id
	}
	return parsed.ExtractedText, &profile, nil
}

// Match submits the completed caregiver profiles and the employer
// requirements and returns the ranked match results.
func (c *Client) Match(ctx context.Context, profiles []model.CaregiverProfile, reqs model.CareRequirements) ([]model.MatchResult, error) {
	payload, err := json.Marshal(matchRequest{Profiles: profiles, Requirements: reqs})
	if err != nil {
		return nil, fmt.Errorf("marshal match request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/match", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build match request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug(ctx, "match request", logger.Int("profiles", len(profiles)))

	var results []model.MatchResult
	if err := c.do(req, &results); err != nil {
		return nil, err
	}
	return model.NormalizeResults(results), nil
}

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false, fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

// do executes req and decodes a JSON response into target. Non-2xx
// responses are turned into errors carrying the backend's human-readable
// detail message when one is present.
func (c *Client) do(req *http.Request, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read backend response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		backendErr := &BackendError{StatusCode: resp.StatusCode}
		var envelope errorResponse
		if err := json.Unmarshal(data, &envelope); err == nil {
			backendErr.Detail = strings.TrimSpace(envelope.Detail)
		}
		return backendErr
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
