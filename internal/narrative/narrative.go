// Package narrative renders check results as markdown for end users
package narrative

import (
	"fmt"
	"strings"

	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/score"
)

// maxSourcesShown limits the evidence lines in an explanation
const maxSourcesShown = 3

// Explain renders the verdict banner, the rationales and the first few sources
func Explain(claims []model.Claim, evidence []model.EvidenceItem, risk model.RiskScore) string {
	label, glyph := score.Verdict(risk.Score)

	var b strings.Builder
	fmt.Fprintf(&b, "%s **Analysis Result:** This content is **%s**.\n\n", glyph, label)

	if len(risk.Rationales) > 0 {
		b.WriteString("**Key concerns:**\n")
		for _, r := range risk.Rationales {
			fmt.Fprintf(&b, "• %s\n", r)
		}
		b.WriteString("\n")
	}

	if len(evidence) > 0 {
		b.WriteString("**Sources checked:**\n")
		shown := evidence
		if len(shown) > maxSourcesShown {
			shown = shown[:maxSourcesShown]
		}
		for _, ev := range shown {
			snippet := ev.Snippet
			if snippet == "" {
				snippet = "See full source"
			}
			fmt.Fprintf(&b, "%s %s: %s\n", stanceGlyph(ev.Stance), ev.Source, snippet)
		}
	}

	return b.String()
}

func stanceGlyph(s model.Stance) string {
	switch s {
	case model.StanceRefute:
		return "❌"
	case model.StanceSupport:
		return "✅"
	default:
		return "ℹ️"
	}
}

// HealthLesson is returned when the text shows health misinformation markers
const HealthLesson = `**🏥 Spotting Health Misinformation**

**Red flags to watch for:**
• Claims of "instant" or "miracle" cures
• Promises of treating serious diseases with simple remedies
• Lack of medical professional endorsement

**How to verify health claims:**
1. Check with official health organizations (WHO, MOHFW, ICMR)
2. Look for peer-reviewed medical studies  
3. Consult healthcare professionals
4. Be skeptical of "too good to be true" claims

**Remember:** Always consult qualified medical professionals for health advice.`

// GeneralLesson is the default fact-checking primer
const GeneralLesson = `**🔍 Fact-Checking Basics**

**Before sharing, ask:**
• Who is the original source?
• When was this published?
• Do other reliable sources report the same thing?

**Quick verification steps:**
1. Check the source's credibility
2. Look for corroborating evidence
3. Search for fact-checks on the claim
4. Consider the source's motivation

**Remember:** When in doubt, don't share. Help stop misinformation!`

// Lesson picks the lesson template from signal membership alone
func Lesson(signals []model.ManipulationSignal) string {
	if model.HasSignal(signals, model.SignalMiracleCure) || model.HasSignal(signals, model.SignalHealthRumor) {
		return HealthLesson
	}
	return GeneralLesson
}
