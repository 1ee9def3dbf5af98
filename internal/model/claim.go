package model

// Claim represents a discrete assertion extracted from the submitted text
type Claim struct {
	Text       string    `json:"text"`       // The matched span (or whole input for the fallback claim)
	Type       ClaimType `json:"type"`       // fact or statement
	Entities   []string  `json:"entities"`   // Captured groups or basic entities
	Confidence float64   `json:"confidence"` // Always within [0, 1]
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeFact      ClaimType = "fact"      // Short, checkable assertion
	ClaimTypeStatement ClaimType = "statement" // Longer free-form statement
)

// Confidence values assigned by the extractor
const (
	PatternConfidence  = 0.8
	FallbackConfidence = 0.6
)
