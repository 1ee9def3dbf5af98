package detect

// Vocabulary holds the fixed word lists the detectors match against.
// Values are lower-case; matching is case-insensitive substring search.
type Vocabulary struct {
	MiracleCure   []string
	Sensational   []string
	HealthTopics  []string
	CureTerms     []string
	Positive      []string
	Negative      []string
	EntityTerms   []string
	CapsRatio     float64 // Fraction of upper-case tokens above which caps are excessive
	MaxExclaims   int     // Exclamation marks allowed before punctuation is excessive
	FallbackWords int     // Token count at which a fallback claim becomes a statement
}

// DefaultVocabulary returns the built-in heuristic vocabulary
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		MiracleCure:   []string{"cure", "miracle", "instant", "24 hours", "overnight", "guaranteed", "secret"},
		Sensational:   []string{"shocking", "doctors hate", "breakthrough", "amazing", "incredible"},
		HealthTopics:  []string{"dengue", "covid", "cancer", "diabetes", "blood pressure"},
		CureTerms:     []string{"cure", "heal", "treatment", "remedy"},
		Positive:      []string{"cure", "heal", "effective", "works", "success", "miracle"},
		Negative:      []string{"fake", "false", "dangerous", "harmful", "scam", "lie"},
		EntityTerms:   []string{"dengue", "covid", "cancer", "diabetes", "heart", "blood", "medicine", "cure", "treatment", "vaccine", "virus", "disease"},
		CapsRatio:     0.3,
		MaxExclaims:   2,
		FallbackWords: 20,
	}
}
