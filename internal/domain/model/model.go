// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"strings"
)

// CareType enumerates the care categories the matching flow understands.
type CareType string

// Valid care types, mirroring the vocabulary used by the parsing service.
const (
	CareTypeChildcare    CareType = "childcare"
	CareTypeEldercare    CareType = "eldercare"
	CareTypeSpecialNeeds CareType = "special-needs"
	CareTypePostSurgery  CareType = "post-surgery"
	CareTypeDementia     CareType = "dementia"
	CareTypeDisability   CareType = "disability"
)

// validCareTypes is the closed set accepted from the parsing service.
var validCareTypes = map[CareType]struct{}{
	CareTypeChildcare:    {},
	CareTypeEldercare:    {},
	CareTypeSpecialNeeds: {},
	CareTypePostSurgery:  {},
	CareTypeDementia:     {},
	CareTypeDisability:   {},
}

// IsValidCareType reports whether s names a known care type.
func IsValidCareType(s string) bool {
	_, ok := validCareTypes[CareType(strings.TrimSpace(s))]
	return ok
}

// FilterCareTypes drops unknown care types, preserving order.
func FilterCareTypes(in []CareType) []CareType {
	out := make([]CareType, 0, len(in))
	for _, ct := range in {
		if IsValidCareType(string(ct)) {
			out = append(out, CareType(strings.TrimSpace(string(ct))))
		}
	}
	return out
}

// CareTypeExperience captures experience within a single care type.
type CareTypeExperience struct {
	Years                 float64  `json:"years"`
	ConditionsExperienced []string `json:"conditions_experienced,omitempty"`
	TasksPerformed        []string `json:"tasks_performed,omitempty"`

	// Type-specific detail; at most one of these is populated depending
	// on which care type this record describes.
	MedicalCare        []string `json:"medical_care,omitempty"`        // eldercare
	AgeRange           []string `json:"age_range,omitempty"`           // childcare
	TherapiesSupported []string `json:"therapies_supported,omitempty"` // special-needs
	SurgeriesSupported []string `json:"surgeries_supported,omitempty"` // post-surgery
	RecoveryPhases     []string `json:"recovery_phases,omitempty"`     // post-surgery
	DementiaTypes      []string `json:"dementia_types,omitempty"`      // dementia
	StagesExperienced  []string `json:"stages_experienced,omitempty"`  // dementia
	DisabilityTypes    []string `json:"disability_types,omitempty"`    // disability
	SpecializedSkills  []string `json:"specialized_skills,omitempty"`  // disability
}

// CaregivingExperience holds the optional per-care-type detail produced by
// the parsing service. Absent sections stay nil.
type CaregivingExperience struct {
	Eldercare    *CareTypeExperience `json:"eldercare,omitempty"`
	Childcare    *CareTypeExperience `json:"childcare,omitempty"`
	SpecialNeeds *CareTypeExperience `json:"special-needs,omitempty"`
	PostSurgery  *CareTypeExperience `json:"post-surgery,omitempty"`
	Dementia     *CareTypeExperience `json:"dementia,omitempty"`
	Disability   *CareTypeExperience `json:"disability,omitempty"`
}

// CaregiverProfile is the structured output of resume parsing.
// Immutable once produced.
type CaregiverProfile struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	CareTypes            []CareType            `json:"careTypes"`
	YearsOfExperience    float64               `json:"yearsOfExperience"`
	Languages            []string              `json:"languages"`
	Skills               []string              `json:"skills"`
	Certifications       []string              `json:"certifications"`
	Summary              string                `json:"summary"`
	RawText              string                `json:"rawText,omitempty"`
	CaregivingExperience *CaregivingExperience `json:"caregiving_experience,omitempty"`
}

// CareRequirements is the employer's stated care needs. Fully replaced, never
// merged, on each submission.
type CareRequirements struct {
	CareType              CareType `json:"careType"`
	Languages             []string `json:"languages"`
	SpecialConsiderations []string `json:"specialConsiderations"`
	OvernightCare         bool     `json:"overnightCare"`
	ExperienceLevel       string   `json:"experienceLevel"`
	AdditionalNotes       string   `json:"additionalNotes"`
}

// Validate checks the minimum shape of a requirements submission.
func (r CareRequirements) Validate() error {
	switch {
	case strings.TrimSpace(string(r.CareType)) == "":
		return ErrMissingCareType
	case !IsValidCareType(string(r.CareType)):
		return ErrUnknownCareType
	case len(r.Languages) == 0:
		return ErrMissingLanguages
	case strings.TrimSpace(r.ExperienceLevel) == "":
		return ErrMissingExperienceLevel
	}
	return nil
}

// Badge categorizes a match score. Assigned by the matching service; the
// thresholds below are only a fallback when the service omits it.
type Badge string

// Badge categories in descending quality order.
const (
	BadgeTop    Badge = "Top Match"
	BadgeStrong Badge = "Strong Match"
	BadgeGood   Badge = "Good Match"
	BadgeNone   Badge = "No Match"
)

// Fallback badge thresholds.
const (
	topMatchScore    = 85
	strongMatchScore = 70
	goodMatchScore   = 50
)

// BadgeForScore derives a badge from a 0-100 score.
func BadgeForScore(score float64) Badge {
	switch {
	case score >= topMatchScore:
		return BadgeTop
	case score >= strongMatchScore:
		return BadgeStrong
	case score >= goodMatchScore:
		return BadgeGood
	default:
		return BadgeNone
	}
}

// MatchExplanation is the matching service's reasoning for one result.
type MatchExplanation struct {
	OverallFit           string                `json:"overallFit"`
	Strengths            []string              `json:"strengths"`
	Gaps                 []string              `json:"gaps"`
	Recommendation       string                `json:"recommendation"`
	CaregivingExperience *CaregivingExperience `json:"caregiving_experience,omitempty"`
}

// MatchResult is one caregiver's score, rank, badge and explanation for a
// given requirements set. Immutable.
type MatchResult struct {
	Caregiver   CaregiverProfile `json:"caregiver"`
	Score       float64          `json:"score"`
	Rank        int              `json:"rank"`
	Badge       Badge            `json:"match_badge"`
	Explanation MatchExplanation `json:"explanation"`
}

// NormalizeResults orders results by score descending and reassigns dense
// 1-based ranks, filling missing badges from the score fallback. The slice
// is modified in place and returned for convenience.
func NormalizeResults(results []MatchResult) []MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for i := range results {
		results[i].Rank = i + 1
		if results[i].Badge == "" {
			results[i].Badge = BadgeForScore(results[i].Score)
		}
	}
	return results
}
