package evidence

import (
	"context"

	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/worker"
)

// GoogleSource combines the fact-check and site search clients into a Source
type GoogleSource struct {
	factChecks *FactCheckClient
	search     *SearchClient
}

// NewGoogleSource creates the Google-backed evidence source. Both clients share
// the per-host limiter.
func NewGoogleSource(cfg *model.Config, limiter *worker.Limiter) *GoogleSource {
	if limiter == nil {
		limiter = worker.NewLimiter(cfg.Evidence.RequestsPerSecond, cfg.Evidence.Burst)
	}
	return &GoogleSource{
		factChecks: NewFactCheckClient(cfg, limiter),
		search:     NewSearchClient(cfg, limiter),
	}
}

// SearchFactChecks delegates to the fact-check client
func (s *GoogleSource) SearchFactChecks(ctx context.Context, query string) Result[ClaimReview] {
	return s.factChecks.SearchFactChecks(ctx, query)
}

// SearchAuthoritativeSites delegates to the site search client
func (s *GoogleSource) SearchAuthoritativeSites(ctx context.Context, query string, siteScopes []string) []Result[SiteResult] {
	return s.search.SearchAuthoritativeSites(ctx, query, siteScopes)
}

// Availability reports which lookups have credentials
func (s *GoogleSource) Availability() map[string]bool {
	return map[string]bool{
		"fact_check":    s.factChecks.Configured(),
		"custom_search": s.search.Configured(),
	}
}
