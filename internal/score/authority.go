package score

import (
	"strings"

	"github.com/ppiankov/rumorscope/internal/model"
)

// AuthorityMatcher decides whether an evidence source is an authoritative institution
type AuthorityMatcher struct {
	markers []string
}

// NewAuthorityMatcher creates a matcher over the given markers.
// A nil list falls back to model.DefaultAuthoritativeSources.
func NewAuthorityMatcher(markers []string) *AuthorityMatcher {
	if markers == nil {
		markers = model.DefaultAuthoritativeSources
	}

	m := &AuthorityMatcher{markers: make([]string, 0, len(markers))}
	for _, marker := range markers {
		marker = strings.ToLower(strings.TrimSpace(marker))
		if marker != "" {
			m.markers = append(m.markers, marker)
		}
	}
	return m
}

// IsAuthoritative reports whether source contains any marker, ignoring case
func (m *AuthorityMatcher) IsAuthoritative(source string) bool {
	lower := strings.ToLower(source)
	for _, marker := range m.markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Count returns how many evidence items come from authoritative sources
func (m *AuthorityMatcher) Count(evidence []model.EvidenceItem) int {
	n := 0
	for _, ev := range evidence {
		if m.IsAuthoritative(ev.Source) {
			n++
		}
	}
	return n
}
