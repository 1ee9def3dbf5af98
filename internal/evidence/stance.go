package evidence

import (
	"strings"
	"time"

	"github.com/ppiankov/rumorscope/internal/model"
)

var (
	refutePhrases  = []string{"false", "incorrect", "wrong", "misleading"}
	supportPhrases = []string{"true", "correct", "accurate"}
)

// RatingToStance maps a textual fact-check rating to a stance. Refuting
// vocabulary wins when both kinds of phrase are present.
func RatingToStance(rating string) model.Stance {
	lower := strings.ToLower(rating)
	for _, p := range refutePhrases {
		if strings.Contains(lower, p) {
			return model.StanceRefute
		}
	}
	for _, p := range supportPhrases {
		if strings.Contains(lower, p) {
			return model.StanceSupport
		}
	}
	return model.StanceNeutral
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// FreshnessDays returns the whole days between date and now, or 0 when the
// date is absent, unparseable or in the future
func FreshnessDays(date string, now time.Time) int {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, date)
		if err != nil {
			continue
		}
		days := int(now.Sub(t).Hours() / 24)
		if days < 0 {
			return 0
		}
		return days
	}
	return 0
}
