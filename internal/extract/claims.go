package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/rumorscope/internal/detect"
	"github.com/ppiankov/rumorscope/internal/model"
)

// claimPatterns are evaluated in order over the lower-cased text
var claimPatterns = []*regexp.Regexp{
	// X cures/heals/treats/prevents Y
	regexp.MustCompile(`(.+?)\s+(cure|heal|treat|prevent)s?\s+(.+?)(?:\.|!|$)`),
	// X is the best treatment/cure/remedy for Y
	regexp.MustCompile(`(.+?)\s+is\s+the\s+best\s+(treatment|cure|remedy)\s+for\s+(.+?)(?:\.|!|$)`),
	// X in N hours/days/minutes
	regexp.MustCompile(`(.+?)\s+in\s+(\d+)\s+(hours?|days?|minutes?)\s*(?:\.|!|$)`),
}

// ClaimExtractor turns raw text into discrete claims
type ClaimExtractor struct {
	patterns      []*regexp.Regexp
	detector      *detect.Detector
	fallbackWords int
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(detector *detect.Detector) *ClaimExtractor {
	if detector == nil {
		detector = detect.NewDetector()
	}
	return &ClaimExtractor{
		patterns:      claimPatterns,
		detector:      detector,
		fallbackWords: detector.Vocabulary().FallbackWords,
	}
}

// Extract returns the claims found in text. It never returns an empty slice:
// when no pattern matches, the whole input becomes a single fallback claim.
// The templates are English; lang is accepted so callers need not special-case it.
func (e *ClaimExtractor) Extract(text, lang string) []model.Claim {
	// a single trailing newline still counts as end of text
	lower := strings.ToLower(strings.TrimSuffix(text, "\n"))

	var claims []model.Claim
	for _, pattern := range e.patterns {
		for _, m := range pattern.FindAllStringSubmatch(lower, -1) {
			claims = append(claims, model.Claim{
				Text:       strings.TrimSpace(m[0]),
				Type:       model.ClaimTypeFact,
				Entities:   capturedEntities(m[1:]),
				Confidence: clampConfidence(model.PatternConfidence),
			})
		}
	}

	if len(claims) > 0 {
		return claims
	}

	claimType := model.ClaimTypeFact
	if len(strings.Fields(text)) >= e.fallbackWords {
		claimType = model.ClaimTypeStatement
	}

	return []model.Claim{{
		Text:       strings.TrimSpace(text),
		Type:       claimType,
		Entities:   e.detector.Entities(text),
		Confidence: clampConfidence(model.FallbackConfidence),
	}}
}

// capturedEntities keeps the non-empty capture groups, trimmed
func capturedEntities(groups []string) []string {
	entities := make([]string, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g != "" {
			entities = append(entities, g)
		}
	}
	return entities
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
