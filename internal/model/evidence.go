package model

// EvidenceItem is a normalized external record bearing on a claim
type EvidenceItem struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Source        string `json:"source"`         // Publisher or institution name
	Stance        Stance `json:"stance"`         // support, refute, neutral
	FreshnessDays int    `json:"freshness_days"` // Days since review/publish date (0 if unknown)
	Snippet       string `json:"snippet"`
	Origin        Origin `json:"api_source"` // Which lookup produced the item
}

// Stance represents whether evidence supports, refutes or is neutral toward a claim
type Stance string

const (
	StanceSupport Stance = "support"
	StanceRefute  Stance = "refute"
	StanceNeutral Stance = "neutral"
)

// Valid reports whether the stance is one of the three known values
func (s Stance) Valid() bool {
	switch s {
	case StanceSupport, StanceRefute, StanceNeutral:
		return true
	default:
		return false
	}
}

// Origin identifies the lookup that produced an evidence item
type Origin string

const (
	OriginFactCheck       Origin = "google_factcheck"        // Fact check API, primary transport
	OriginFactCheckDirect Origin = "google_factcheck_direct" // Fact check API, fallback transport
	OriginSiteSearch      Origin = "google_custom_search"    // Authoritative site search
	OriginFallbackMoH     Origin = "mock_authoritative"      // Deterministic fallback records
	OriginFallbackWHO     Origin = "mock_who"
	OriginFallbackICMR    Origin = "mock_icmr"
)

// Evidence limits
const (
	MaxEvidence          = 8 // Aggregated list cap per request
	MaxEvidencePerSource = 5 // Per-source cap before merging
	MaxSiteScopes        = 3 // Authoritative sites queried per claim
	MaxQueryLength       = 100
)
