package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRequest matches every error caused by the request itself
var ErrInvalidRequest = errors.New("invalid request")

// ErrEmptyText is returned when a check request carries no usable text
var ErrEmptyText error = &requestError{msg: "text input is required"}

// requestError is a validation failure; errors.Is matches it against ErrInvalidRequest
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Is(target error) bool { return target == ErrInvalidRequest }

// DefaultLanguage is the language the narrative templates are written in
const DefaultLanguage = "en"

// ReturnLevel selects which projection of a CheckResult is returned
type ReturnLevel string

const (
	ReturnDetailed ReturnLevel = "detailed"
	ReturnSimple   ReturnLevel = "simple"
)

// CheckRequest is the input contract of a misinformation check
type CheckRequest struct {
	Text        string      `json:"text"`
	Lang        string      `json:"lang,omitempty"`
	ReturnLevel ReturnLevel `json:"return_level,omitempty"`
}

// Normalize applies defaults and validates the request
func (r *CheckRequest) Normalize() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	r.Lang = strings.TrimSpace(r.Lang)
	if r.Lang == "" {
		r.Lang = DefaultLanguage
	}
	switch r.ReturnLevel {
	case "":
		r.ReturnLevel = ReturnDetailed
	case ReturnDetailed, ReturnSimple:
	default:
		return &requestError{msg: fmt.Sprintf("unknown return_level %q (supported: detailed, simple)", r.ReturnLevel)}
	}
	return nil
}

// RiskScore is the bounded misinformation risk estimate with its rationale
type RiskScore struct {
	Score      float64  `json:"score"`      // 0-100, one decimal
	Rationales []string `json:"rationales"` // In rule evaluation order
}

// Analysis carries coarse text features computed alongside the check
type Analysis struct {
	ClaimsExtracted  bool      `json:"claims_extracted"`
	Confidence       float64   `json:"confidence"`
	LanguageDetected string    `json:"language_detected"`
	EntitiesFound    []string  `json:"entities_found"`
	Sentiment        Sentiment `json:"sentiment"`
}

// Diagnostics is metadata returned only for detailed responses
type Diagnostics struct {
	LatencyMS        int64           `json:"latency_ms"`
	SourcesAvailable map[string]bool `json:"sources_available"`
}

// CheckResult is the canonical outcome of one check request
type CheckResult struct {
	Text                string               `json:"-"`
	Lang                string               `json:"-"`
	CheckedAt           time.Time            `json:"-"`
	Risk                RiskScore            `json:"risk"`
	Claims              []Claim              `json:"claims"`
	Evidence            []EvidenceItem       `json:"evidence"`
	ManipulationSignals []ManipulationSignal `json:"manipulation_signals"`
	Explanation         string               `json:"explanation_md"`
	Lesson              string               `json:"lesson_md"`
	Analysis            Analysis             `json:"analysis"`
	Debug               Diagnostics          `json:"debug"`
}

// DetailedResponse is the full projection of a CheckResult
type DetailedResponse struct {
	Risk                RiskScore            `json:"risk"`
	Claims              []Claim              `json:"claims"`
	Evidence            []EvidenceItem       `json:"evidence"`
	ManipulationSignals []ManipulationSignal `json:"manipulation_signals"`
	Explanation         string               `json:"explanation_md"`
	Lesson              string               `json:"lesson_md"`
	Analysis            Analysis             `json:"analysis"`
	Debug               Diagnostics          `json:"debug"`
}

// SimpleResponse carries only the risk and the two narratives
type SimpleResponse struct {
	Risk        RiskScore `json:"risk"`
	Explanation string    `json:"explanation_md"`
	Lesson      string    `json:"lesson_md"`
}

// Detailed projects the result onto the detailed response shape
func (r *CheckResult) Detailed() DetailedResponse {
	return DetailedResponse{
		Risk:                r.Risk,
		Claims:              r.Claims,
		Evidence:            r.Evidence,
		ManipulationSignals: r.ManipulationSignals,
		Explanation:         r.Explanation,
		Lesson:              r.Lesson,
		Analysis:            r.Analysis,
		Debug:               r.Debug,
	}
}

// Simple projects the result onto the simple response shape
func (r *CheckResult) Simple() SimpleResponse {
	return SimpleResponse{
		Risk:        r.Risk,
		Explanation: r.Explanation,
		Lesson:      r.Lesson,
	}
}

// Project selects the projection for the given return level
func (r *CheckResult) Project(level ReturnLevel) any {
	if level == ReturnSimple {
		return r.Simple()
	}
	return r.Detailed()
}
