package rules

import (
	"strings"

	"github.com/guarzo/cardgap/internal/model"
)

// DetectSport maps a title to the first sport whose keyword set matches.
// Sports are tested in the configured priority order; North American sports
// come first so that terms shared with soccer ("football") or crossover
// entities resolve toward trading-card convention. Returns SportUnknown
// when nothing matches.
func (r *RuleSet) DetectSport(title string) model.Sport {
	lower := strings.ToLower(title)
	for _, m := range r.sports {
		if containsAny(lower, m.keywords) {
			return m.sport
		}
	}
	return model.SportUnknown
}
