package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/pkoh123/carematch-ai/internal/domain/model"
	"github.com/pkoh123/carematch-ai/pkg/logger"
)

//go:embed parse_prompt.md
var parsePromptTemplate string

//go:embed match_prompt.md
var matchPromptTemplate string

const defaultMaxLogLength = 200

// contentGenerator abstracts the Gemini client for testing.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Service implements resume parsing and caregiver matching through Gemini.
type Service struct {
	generator contentGenerator
	logger    logger.Logger
	maxLogLen int
}

// NewService creates a Service around a content generator.
func NewService(generator contentGenerator, l logger.Logger) *Service {
	if l == nil {
		l = logger.Get().Named("gemini")
	}

	return &Service{
		generator: generator,
		logger:    l,
		maxLogLen: defaultMaxLogLength,
	}
}

// ParseResume extracts text from a PDF payload and asks the model to turn it
// into a structured caregiver profile.
func (s *Service) ParseResume(ctx context.Context, id, filename string, payload []byte) (string, *model.CaregiverProfile, error) {
	text, err := extractPDFText(payload)
	if err != nil {
		return "", nil, err
	}

	prompt := strings.ReplaceAll(parsePromptTemplate, "{{RESUME_TEXT}}", text)

	s.logger.Debug(ctx, "parse resume request",
		logger.String("resumeID", id),
		logger.String("filename", filename),
		logger.Int("promptLength", utf8.RuneCountInString(prompt)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", nil, err
	}

	s.logger.Debug(ctx, "parse resume response",
		logger.String("resumeID", id),
		logger.String("preview", truncateForLog(raw, s.maxLogLen)),
	)

	var profile model.CaregiverProfile
	if err := json.Unmarshal([]byte(extractJSON(raw)), &profile); err != nil {
		return "", nil, fmt.Errorf("parse profile response: %w", err)
	}

	profile.ID = id
	profile.RawText = text
	profile.CareTypes = model.FilterCareTypes(profile.CareTypes)

	return text, &profile, nil
}

// matchItem mirrors one element of the model's match response array.
type matchItem struct {
	ID          string                 `json:"id"`
	MatchScore  json.Number            `json:"match_score"`
	MatchBadge  string                 `json:"match_badge"`
	Explanation model.MatchExplanation `json:"explanation"`
}

// Match scores the given profiles against the requirements and returns
// ranked results.
func (s *Service) Match(ctx context.Context, profiles []model.CaregiverProfile, reqs model.CareRequirements) ([]model.MatchResult, error) {
	profilesJSON, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profiles: %w", err)
	}

	reqsJSON, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal requirements: %w", err)
	}

	prompt := strings.ReplaceAll(matchPromptTemplate, "{{PROFILES_JSON}}", string(profilesJSON))
	prompt = strings.ReplaceAll(prompt, "{{REQUIREMENTS_JSON}}", string(reqsJSON))

	s.logger.Debug(ctx, "match request",
		logger.Int("profiles", len(profiles)),
		logger.Int("promptLength", utf8.RuneCountInString(prompt)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "match response", logger.String("preview", truncateForLog(raw, s.maxLogLen)))

	var items []matchItem
	if err := json.Unmarshal([]byte(extractJSON(raw)), &items); err != nil {
		return nil, fmt.Errorf("parse match response: %w", err)
	}

	byID := make(map[string]model.CaregiverProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	results := make([]model.MatchResult, 0, len(items))
	for i, item := range items {
		profile, ok := byID[strings.TrimSpace(item.ID)]
		if !ok {
			// The model sometimes drops or mangles ids; fall back to
			// positional pairing when the counts line up.
			if i < len(profiles) {
				profile = profiles[i]
			} else {
				continue
			}
		}

		score, _ := item.MatchScore.Float64()
		results = append(results, model.MatchResult{
			Caregiver:   profile,
			Score:       score,
			Badge:       model.Badge(strings.TrimSpace(item.MatchBadge)),
			Explanation: item.Explanation,
		})
	}

	return model.NormalizeResults(results), nil
}

// Health reports whether the service has a usable generator.
func (s *Service) Health(ctx context.Context) (bool, error) {
	return s != nil && s.generator != nil, nil
}
