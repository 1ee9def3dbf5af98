// Package detect implements pure heuristic detectors over raw text:
// manipulation signals, basic entities and coarse sentiment.
package detect

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/rumorscope/internal/model"
)

// Detector runs the heuristic detectors with a fixed vocabulary
type Detector struct {
	vocab       Vocabulary
	entityRegex *regexp.Regexp
	timeRegex   *regexp.Regexp
}

// NewDetector creates a detector using the default vocabulary
func NewDetector() *Detector {
	return NewDetectorWithVocabulary(DefaultVocabulary())
}

// NewDetectorWithVocabulary creates a detector for a custom vocabulary
func NewDetectorWithVocabulary(vocab Vocabulary) *Detector {
	quoted := make([]string, len(vocab.EntityTerms))
	for i, term := range vocab.EntityTerms {
		quoted[i] = regexp.QuoteMeta(term)
	}

	return &Detector{
		vocab:       vocab,
		entityRegex: regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`),
		timeRegex:   regexp.MustCompile(`\b(\d+)\s*(hours?|days?|minutes?|years?)\b`),
	}
}

// Vocabulary returns the detector's vocabulary
func (d *Detector) Vocabulary() Vocabulary {
	return d.vocab
}

// ManipulationSignals returns the manipulation signals present in text, in detection order
func (d *Detector) ManipulationSignals(text string) []model.ManipulationSignal {
	lower := strings.ToLower(text)
	signals := make([]model.ManipulationSignal, 0, len(model.AllSignals))

	if containsAny(lower, d.vocab.MiracleCure) {
		signals = append(signals, model.SignalMiracleCure)
	}

	if containsAny(lower, d.vocab.Sensational) {
		signals = append(signals, model.SignalSensational)
	}

	tokens := strings.Fields(text)
	upper := 0
	for _, token := range tokens {
		if isUpperToken(token) {
			upper++
		}
	}
	if float64(upper) > float64(len(tokens))*d.vocab.CapsRatio {
		signals = append(signals, model.SignalExcessiveCaps)
	}

	if strings.Count(text, "!") > d.vocab.MaxExclaims {
		signals = append(signals, model.SignalExcessivePunctuation)
	}

	if containsAny(lower, d.vocab.HealthTopics) && containsAny(lower, d.vocab.CureTerms) {
		signals = append(signals, model.SignalHealthRumor)
	}

	return signals
}

// Entities extracts health terms and number/time-unit pairs, deduplicated in first-seen order
func (d *Detector) Entities(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	entities := make([]string, 0)

	add := func(entity string) {
		if !seen[entity] {
			seen[entity] = true
			entities = append(entities, entity)
		}
	}

	for _, m := range d.entityRegex.FindAllStringSubmatch(lower, -1) {
		add(m[1])
	}
	for _, m := range d.timeRegex.FindAllStringSubmatch(lower, -1) {
		add(fmt.Sprintf("%s %s", m[1], m[2]))
	}

	return entities
}

// Sentiment compares how many positive and negative vocabulary words appear in text.
// Ties are neutral.
func (d *Detector) Sentiment(text string) model.Sentiment {
	lower := strings.ToLower(text)
	pos := countPresent(lower, d.vocab.Positive)
	neg := countPresent(lower, d.vocab.Negative)

	switch {
	case pos > neg:
		return model.SentimentPositive
	case neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// containsAny short-circuits on the first vocabulary word found in text
func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func countPresent(text string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			count++
		}
	}
	return count
}

// isUpperToken reports whether token has at least one cased letter and no lower-case ones
func isUpperToken(token string) bool {
	cased := false
	for _, r := range token {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
