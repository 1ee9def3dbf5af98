package evidence

import (
	"strings"

	"github.com/ppiankov/rumorscope/internal/model"
)

// healthFallback is used when a claim talks about a cure
var healthFallback = []model.EvidenceItem{
	{
		URL:           "https://mohfw.gov.in/advisories/health-misinformation",
		Title:         "Ministry of Health Advisory on Health Misinformation",
		Source:        "Ministry of Health & Family Welfare, India",
		Stance:        model.StanceRefute,
		FreshnessDays: 2,
		Snippet:       "Warns against unverified health claims circulating on social media.",
		Origin:        model.OriginFallbackMoH,
	},
	{
		URL:           "https://who.int/news-room/fact-sheets/detail/misinformation",
		Title:         "WHO Statement on Health Misinformation",
		Source:        "World Health Organization",
		Stance:        model.StanceRefute,
		FreshnessDays: 5,
		Snippet:       "No scientific evidence supports home remedies for serious diseases.",
		Origin:        model.OriginFallbackWHO,
	},
	{
		URL:           "https://icmr.gov.in/press-releases/medical-claims",
		Title:         "ICMR Guidelines on Unverified Medical Claims",
		Source:        "Indian Council of Medical Research",
		Stance:        model.StanceNeutral,
		FreshnessDays: 10,
		Snippet:       "Advises public to consult healthcare professionals before following health advice.",
		Origin:        model.OriginFallbackICMR,
	},
}

// generalFallback is used for every other claim
var generalFallback = []model.EvidenceItem{
	{
		URL:           "https://pib.gov.in/factcheck",
		Title:         "PIB Fact Check: Verify Before You Share",
		Source:        "Press Information Bureau, Government of India",
		Stance:        model.StanceNeutral,
		FreshnessDays: 3,
		Snippet:       "Recommends confirming viral claims with official sources before sharing.",
		Origin:        model.OriginFallbackMoH,
	},
	{
		URL:           "https://who.int/health-topics/infodemic",
		Title:         "WHO Guidance on Managing Infodemics",
		Source:        "World Health Organization",
		Stance:        model.StanceNeutral,
		FreshnessDays: 7,
		Snippet:       "Encourages checking claims against reputable fact-checkers and official statements.",
		Origin:        model.OriginFallbackWHO,
	},
	{
		URL:           "https://mohfw.gov.in/advisories/verify-information",
		Title:         "Ministry of Health Advisory on Verifying Information",
		Source:        "Ministry of Health & Family Welfare, India",
		Stance:        model.StanceNeutral,
		FreshnessDays: 14,
		Snippet:       "Asks citizens to rely on official channels for public health information.",
		Origin:        model.OriginFallbackMoH,
	},
}

// FallbackEvidence returns the deterministic evidence set used when no external
// lookup produced anything. The set depends only on whether a claim mentions a cure.
func FallbackEvidence(claims []model.Claim) []model.EvidenceItem {
	set := generalFallback
	for _, c := range claims {
		if strings.Contains(strings.ToLower(c.Text), "cure") {
			set = healthFallback
			break
		}
	}

	out := make([]model.EvidenceItem, len(set))
	copy(out, set)
	return out
}
