package evidence

import (
	"context"

	"github.com/ppiankov/rumorscope/internal/model"
)

// ClaimReview is a raw fact-check review as returned by a fact-check lookup
type ClaimReview struct {
	URL           string       `json:"url"`
	Title         string       `json:"title"`
	Publisher     string       `json:"publisher"`
	TextualRating string       `json:"textual_rating"`
	ReviewDate    string       `json:"review_date"`
	Origin        model.Origin `json:"origin"`
}

// SiteResult is a raw search hit from an authoritative site
type SiteResult struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Site      string `json:"site"` // Scope that produced the hit, e.g. "site:who.int"
	Snippet   string `json:"snippet"`
	Published string `json:"published,omitempty"`
}

// Source is the external evidence capability the aggregator depends on
type Source interface {
	// SearchFactChecks looks up published fact-check reviews for query
	SearchFactChecks(ctx context.Context, query string) Result[ClaimReview]

	// SearchAuthoritativeSites searches each site scope independently and
	// returns one Result per scope, in scope order
	SearchAuthoritativeSites(ctx context.Context, query string, siteScopes []string) []Result[SiteResult]
}

// Available describes which external lookups a source has credentials for
type Available interface {
	Availability() map[string]bool
}

// NopSource is a Source with no external access; every lookup fails as not configured
type NopSource struct{}

// SearchFactChecks always fails
func (NopSource) SearchFactChecks(ctx context.Context, query string) Result[ClaimReview] {
	return Failed[ClaimReview]("factcheck", ErrNotConfigured)
}

// SearchAuthoritativeSites fails for every scope
func (NopSource) SearchAuthoritativeSites(ctx context.Context, query string, siteScopes []string) []Result[SiteResult] {
	results := make([]Result[SiteResult], len(siteScopes))
	for i, site := range siteScopes {
		results[i] = Failed[SiteResult](site, ErrNotConfigured)
	}
	return results
}

// Availability reports that nothing is configured
func (NopSource) Availability() map[string]bool {
	return map[string]bool{"fact_check": false, "custom_search": false}
}
