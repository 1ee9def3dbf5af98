package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/rumorscope/internal/model"
)

// Fixed rule weights. Novelty is reserved and not applied by any rule.
const (
	WeightContradiction    = 0.40
	WeightUncorroborated   = 0.25
	WeightManipulation     = 0.20
	WeightSourceReputation = 0.10
	WeightNovelty          = 0.05
)

// signalSaturation is the signal count at which the manipulation rule is fully applied
const signalSaturation = 3

// Scorer turns claims, evidence and signals into a bounded risk score
type Scorer struct {
	authority *AuthorityMatcher
}

// NewScorer creates a scorer using the default authoritative markers
func NewScorer() *Scorer {
	return NewScorerWithAuthority(nil)
}

// NewScorerWithAuthority creates a scorer with a custom authority matcher
func NewScorerWithAuthority(authority *AuthorityMatcher) *Scorer {
	if authority == nil {
		authority = NewAuthorityMatcher(nil)
	}
	return &Scorer{authority: authority}
}

// Calculate applies the rules in order. Each rule that fires adds its
// weighted share and one rationale; the rationale order follows the rules.
func (s *Scorer) Calculate(claims []model.Claim, evidence []model.EvidenceItem, signals []model.ManipulationSignal) model.RiskScore {
	var total float64
	rationales := make([]string, 0, 4)

	rules := []func() (float64, string, bool){
		func() (float64, string, bool) { return s.contradiction(evidence) },
		func() (float64, string, bool) { return s.uncorroborated(evidence) },
		func() (float64, string, bool) { return s.manipulation(signals) },
		func() (float64, string, bool) { return s.sourceReputation(evidence) },
	}
	for _, rule := range rules {
		if delta, rationale, fired := rule(); fired {
			total += delta
			rationales = append(rationales, rationale)
		}
	}

	return model.RiskScore{
		Score:      finalScore(total),
		Rationales: rationales,
	}
}

// contradiction fires when more than half of the evidence refutes the claim
func (s *Scorer) contradiction(evidence []model.EvidenceItem) (float64, string, bool) {
	if len(evidence) == 0 {
		return 0, "", false
	}

	refutes := countStance(evidence, model.StanceRefute)
	ratio := float64(refutes) / float64(len(evidence))
	if ratio <= 0.5 {
		return 0, "", false
	}
	return WeightContradiction * ratio, fmt.Sprintf("Contradicted by %d reliable sources", refutes), true
}

// uncorroborated fires when evidence exists but none of it supports the claim
func (s *Scorer) uncorroborated(evidence []model.EvidenceItem) (float64, string, bool) {
	if len(evidence) == 0 || countStance(evidence, model.StanceSupport) > 0 {
		return 0, "", false
	}
	return WeightUncorroborated, "No supporting evidence from reliable sources", true
}

// manipulation scales with the number of signals up to signalSaturation
func (s *Scorer) manipulation(signals []model.ManipulationSignal) (float64, string, bool) {
	if len(signals) == 0 {
		return 0, "", false
	}

	share := math.Min(float64(len(signals))/signalSaturation, 1.0)

	shown := signals
	if len(shown) > 2 {
		shown = shown[:2]
	}
	names := make([]string, len(shown))
	for i, sig := range shown {
		names[i] = string(sig)
	}

	return WeightManipulation * share, "Contains manipulation patterns: " + strings.Join(names, ", "), true
}

// sourceReputation adds half its weight when fewer than half of the items
// come from authoritative sources. The shortfall size does not matter.
func (s *Scorer) sourceReputation(evidence []model.EvidenceItem) (float64, string, bool) {
	if float64(s.authority.Count(evidence)) >= float64(len(evidence))/2 {
		return 0, "", false
	}
	return WeightSourceReputation * 0.5, "Limited authoritative source coverage", true
}

func countStance(evidence []model.EvidenceItem, stance model.Stance) int {
	n := 0
	for _, ev := range evidence {
		if ev.Stance == stance {
			n++
		}
	}
	return n
}

// finalScore scales to 0-100, rounds to one decimal and clamps
func finalScore(total float64) float64 {
	scaled := math.Round(total*100*10) / 10
	return math.Max(0, math.Min(scaled, 100))
}

// Verdict maps a score onto its label and glyph
func Verdict(score float64) (label, glyph string) {
	switch {
	case score >= 70:
		return "likely false", "⚠️"
	case score >= 40:
		return "unverified", "🔍"
	default:
		return "appears credible", "✅"
	}
}
