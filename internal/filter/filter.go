// Package filter decides whether a single sale candidate may contribute to
// a target grade bucket's average. Every gate is a pure predicate over the
// candidate; no gate raises an error and a failure of any gate rejects.
package filter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/guarzo/cardgap/internal/model"
	"github.com/guarzo/cardgap/internal/rules"
)

// Target names the bucket a candidate is being screened for.
type Target string

const (
	TargetRaw   Target = "raw"
	TargetPSA9  Target = "psa9"
	TargetPSA10 Target = "psa10"
)

// Price-ceiling multipliers. Empirically tuned alongside the per-sport base
// ceilings; these exact values are load-bearing for downstream averages.
const (
	vintageMultiplier = 20
	psa9Multiplier    = 20
	psa10Multiplier   = 50
	vintageYearMax    = 1979
	vintageYearMin    = 1900
	minMeaningful     = 3
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Filter screens sale candidates against a rule set.
type Filter struct {
	rules rules.Classifier
}

// New returns a Filter backed by the given rule set.
func New(r rules.Classifier) *Filter {
	return &Filter{rules: r}
}

// Accepts runs the four gates in order: grade, meaningful content, price
// ceiling, parallel. All must pass.
func (f *Filter) Accepts(c model.SaleCandidate, target Target) bool {
	grade := f.rules.MatchGrade(c.Title)
	if !gradeMatchesTarget(grade, target) {
		return false
	}

	if countMeaningfulTokens(c.Title) < minMeaningful {
		return false
	}

	sport := f.rules.DetectSport(c.Title)
	max := f.maxPrice(sport, c.Title, target)
	if c.Price <= 0 || c.Price >= max {
		return false
	}

	return !f.rules.ClassifyParallel(sport, c.Title).Rejected()
}

func gradeMatchesTarget(grade model.GradeInfo, target Target) bool {
	switch target {
	case TargetRaw:
		return grade.IsRaw
	case TargetPSA9:
		return grade.Company == model.CompanyPSA && !grade.Half && grade.WholeGrade() == 9
	case TargetPSA10:
		return grade.Company == model.CompanyPSA && !grade.Half && grade.WholeGrade() == 10
	}
	return false
}

// countMeaningfulTokens counts whitespace-separated tokens that plausibly
// describe the card itself. Numbering, price noise, and grading chatter
// don't count toward the minimum.
func countMeaningfulTokens(title string) int {
	count := 0
	for _, tok := range strings.Fields(title) {
		if len(tok) <= 2 {
			continue
		}
		lower := strings.ToLower(tok)
		if strings.Contains(lower, "#") ||
			strings.Contains(lower, "$") ||
			strings.Contains(lower, "psa") ||
			strings.Contains(lower, "graded") {
			continue
		}
		count++
	}
	return count
}

// maxPrice computes the acceptance ceiling for a candidate: the sport's base
// ceiling, times 20 when the detected year is pre-1980, times the target
// bucket's grade multiplier.
func (f *Filter) maxPrice(sport model.Sport, title string, target Target) float64 {
	max := f.rules.PriceCeiling(sport)

	if year, ok := detectYear(title); ok && year >= vintageYearMin && year <= vintageYearMax {
		max *= vintageMultiplier
	}

	switch target {
	case TargetPSA9:
		max *= psa9Multiplier
	case TargetPSA10:
		max *= psa10Multiplier
	}
	return max
}

// detectYear returns the first 4-digit year token in the title.
func detectYear(title string) (int, bool) {
	m := yearPattern.FindString(title)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return year, true
}
