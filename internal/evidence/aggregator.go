// Package evidence collects and normalizes external evidence for claims.
package evidence

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/rumorscope/internal/logging"
	"github.com/ppiankov/rumorscope/internal/model"
)

// nowFunc is the clock used for freshness (injectable for tests)
var nowFunc = time.Now

// Aggregator queries an evidence source for every claim and merges the results
type Aggregator struct {
	source      Source
	siteScopes  []string
	concurrency int
	logger      *log.Logger
}

// NewAggregator creates an aggregator. At most model.MaxSiteScopes scopes are queried.
func NewAggregator(source Source, siteScopes []string, concurrency int) *Aggregator {
	if source == nil {
		source = NopSource{}
	}
	if len(siteScopes) > model.MaxSiteScopes {
		siteScopes = siteScopes[:model.MaxSiteScopes]
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Aggregator{
		source:      source,
		siteScopes:  append([]string(nil), siteScopes...),
		concurrency: concurrency,
		logger:      logging.WithPrefix("evidence"),
	}
}

// claimEvidence holds the normalized items for one claim, in source order
type claimEvidence struct {
	factChecks []model.EvidenceItem
	sites      [][]model.EvidenceItem
}

// Collect gathers evidence for claims. The result never exceeds model.MaxEvidence
// items and is never empty when claims are present: if every lookup comes back
// empty the deterministic fallback set is returned.
func (a *Aggregator) Collect(ctx context.Context, claims []model.Claim) []model.EvidenceItem {
	perClaim := make([]claimEvidence, len(claims))

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, claim := range claims {
		g.Go(func() error {
			perClaim[i] = a.collectClaim(ctx, Query(claim.Text))
			return nil // failures are recorded per source, never for the group
		})
	}
	_ = g.Wait()

	evidence := make([]model.EvidenceItem, 0, model.MaxEvidence)
	for _, ce := range perClaim {
		evidence = append(evidence, ce.factChecks...)
		for _, site := range ce.sites {
			evidence = append(evidence, site...)
		}
	}

	if len(evidence) == 0 && len(claims) > 0 {
		a.logger.Debug("no external evidence, using fallback set", "claims", len(claims))
		return FallbackEvidence(claims)
	}

	if len(evidence) > model.MaxEvidence {
		evidence = evidence[:model.MaxEvidence]
	}
	return evidence
}

func (a *Aggregator) collectClaim(ctx context.Context, query string) claimEvidence {
	now := nowFunc()
	var ce claimEvidence

	fc := a.factChecks(ctx, query)
	if fc.Failed() {
		a.logFailure(fc.Source, fc.Err)
	} else {
		ce.factChecks = NormalizeClaimReviews(fc.Data, now)
	}

	for _, res := range a.siteResults(ctx, query) {
		if res.Failed() {
			a.logFailure(res.Source, res.Err)
			continue
		}
		ce.sites = append(ce.sites, NormalizeSiteResults(res.Data, now))
	}

	return ce
}

// factChecks calls the source, converting a panic into a failed lookup
func (a *Aggregator) factChecks(ctx context.Context, query string) (res Result[ClaimReview]) {
	defer func() {
		if rec := recover(); rec != nil {
			res = recovered[ClaimReview]("factcheck", rec)
		}
	}()
	return a.source.SearchFactChecks(ctx, query)
}

// siteResults calls the source, converting a panic into one failed lookup
func (a *Aggregator) siteResults(ctx context.Context, query string) (res []Result[SiteResult]) {
	defer func() {
		if rec := recover(); rec != nil {
			res = []Result[SiteResult]{recovered[SiteResult]("sites", rec)}
		}
	}()
	return a.source.SearchAuthoritativeSites(ctx, query, a.siteScopes)
}

func (a *Aggregator) logFailure(source string, err error) {
	if errors.Is(err, ErrNotConfigured) {
		a.logger.Debug("evidence source skipped", "source", source, "reason", err)
		return
	}
	a.logger.Warn("evidence lookup failed", "source", source, "err", err)
}

// Query limits claim text to the first model.MaxQueryLength characters
func Query(text string) string {
	runes := []rune(text)
	if len(runes) > model.MaxQueryLength {
		return string(runes[:model.MaxQueryLength])
	}
	return text
}
