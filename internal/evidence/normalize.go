package evidence

import (
	"strings"
	"time"

	"github.com/ppiankov/rumorscope/internal/model"
)

// NormalizeClaimReviews converts raw reviews to evidence items, capped at
// model.MaxEvidencePerSource
func NormalizeClaimReviews(reviews []ClaimReview, now time.Time) []model.EvidenceItem {
	items := make([]model.EvidenceItem, 0, min(len(reviews), model.MaxEvidencePerSource))
	for _, r := range reviews {
		if len(items) == model.MaxEvidencePerSource {
			break
		}

		source := strings.TrimSpace(r.Publisher)
		if source == "" {
			source = "Unknown"
		}
		origin := r.Origin
		if origin == "" {
			origin = model.OriginFactCheck
		}

		items = append(items, model.EvidenceItem{
			URL:           r.URL,
			Title:         r.Title,
			Source:        source,
			Stance:        RatingToStance(r.TextualRating),
			FreshnessDays: FreshnessDays(r.ReviewDate, now),
			Snippet:       truncate(r.Title, 100) + "...",
			Origin:        origin,
		})
	}
	return items
}

// NormalizeSiteResults converts authoritative-site hits to neutral evidence
// items, capped at model.MaxEvidencePerSource
func NormalizeSiteResults(results []SiteResult, now time.Time) []model.EvidenceItem {
	items := make([]model.EvidenceItem, 0, min(len(results), model.MaxEvidencePerSource))
	for _, r := range results {
		if len(items) == model.MaxEvidencePerSource {
			break
		}

		snippet := strings.TrimSpace(r.Snippet)
		if snippet == "" {
			snippet = truncate(r.Title, 100) + "..."
		}

		items = append(items, model.EvidenceItem{
			URL:           r.URL,
			Title:         r.Title,
			Source:        SiteLabel(r.Site),
			Stance:        model.StanceNeutral,
			FreshnessDays: FreshnessDays(r.Published, now),
			Snippet:       snippet,
			Origin:        model.OriginSiteSearch,
		})
	}
	return items
}

// SiteLabel turns a site scope into a readable source name,
// e.g. "site:mohfw.gov.in" → "mohfw (Government of India)"
func SiteLabel(site string) string {
	label := strings.TrimPrefix(strings.TrimSpace(site), "site:")
	if strings.HasSuffix(label, ".gov.in") {
		label = strings.TrimSuffix(label, ".gov.in") + " (Government of India)"
	}
	return label
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
