package model

// ManipulationSignal is a detected rhetorical pattern associated with misleading content
type ManipulationSignal string

const (
	SignalMiracleCure          ManipulationSignal = "miracle_cure_language"
	SignalSensational          ManipulationSignal = "sensational_language"
	SignalExcessiveCaps        ManipulationSignal = "excessive_capitalization"
	SignalExcessivePunctuation ManipulationSignal = "excessive_punctuation"
	SignalHealthRumor          ManipulationSignal = "health_rumor"
)

// AllSignals lists the closed set of manipulation signals in detection order
var AllSignals = []ManipulationSignal{
	SignalMiracleCure,
	SignalSensational,
	SignalExcessiveCaps,
	SignalExcessivePunctuation,
	SignalHealthRumor,
}

// Known reports whether s belongs to the fixed signal set
func (s ManipulationSignal) Known() bool {
	for _, known := range AllSignals {
		if s == known {
			return true
		}
	}
	return false
}

// HasSignal reports whether target is present in signals
func HasSignal(signals []ManipulationSignal, target ManipulationSignal) bool {
	for _, s := range signals {
		if s == target {
			return true
		}
	}
	return false
}

// Sentiment is the coarse polarity of the submitted text
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)
