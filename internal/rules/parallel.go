package rules

import (
	"strings"

	"github.com/guarzo/cardgap/internal/model"
)

// ClassifyParallel reports the two parallel signals for a title. The full
// exclusion set for a sport is the universal expensive/premium terms plus
// the sport's own premium list. A base-list hit is reported independently;
// callers reject only on expensive-without-base (ParallelClassification.
// Rejected), so a "Pink Refractor" survives even though "pink" alone is an
// expensive marker. Unknown sport has no base list and so never gets the
// override.
func (r *RuleSet) ClassifyParallel(sport model.Sport, title string) model.ParallelClassification {
	lower := strings.ToLower(title)

	var out model.ParallelClassification
	if containsAny(lower, r.universalExclusion) || containsAny(lower, r.sportPremium[sport]) {
		out.HasExpensiveParallel = true
	}
	if containsAny(lower, r.sportBase[sport]) {
		out.IsBaseParallel = true
	}
	return out
}
