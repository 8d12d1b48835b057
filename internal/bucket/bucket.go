// Package bucket partitions sale candidates into the fixed grade buckets.
// Multi-card lot titles are dropped outright; every surviving candidate
// lands in exactly one bucket.
package bucket

import (
	"strings"

	"github.com/guarzo/cardgap/internal/model"
	"github.com/guarzo/cardgap/internal/rules"
)

// lotMarkers flag titles that describe a pick list or complete set rather
// than a single-card sale. These never enter a bucket.
var lotMarkers = []string{"pick", "complete", "choose your card"}

// gradedConditionIDs is the eBay condition-ID allowlist that unambiguously
// marks a listing as professionally graded in the trading-card categories.
var gradedConditionIDs = map[string]bool{
	"2750":   true,
	"275000": true,
	"275002": true,
	"275004": true,
}

// gradeBuckets is the claiming order: higher and more specific grades first,
// PSA before CGC before TAG before SGC before AiGrade. Higher grades are
// rarer and must be claimed before a greedy match on a lower one can take
// the title ("10" alone must not hijack a CGC 9 listing, and vice versa).
var gradeBuckets = []struct {
	company model.GradingCompany
	grade   int
	bucket  model.Bucket
}{
	{model.CompanyPSA, 10, model.BucketPSA10},
	{model.CompanyPSA, 9, model.BucketPSA9},
	{model.CompanyPSA, 8, model.BucketPSA8},
	{model.CompanyPSA, 7, model.BucketPSA7},
	{model.CompanyCGC, 10, model.BucketCGC10},
	{model.CompanyCGC, 9, model.BucketCGC9},
	{model.CompanyTAG, 10, model.BucketTAG10},
	{model.CompanyTAG, 9, model.BucketTAG9},
	{model.CompanyTAG, 8, model.BucketTAG8},
	{model.CompanySGC, 10, model.BucketSGC10},
	{model.CompanyAiGrade, 10, model.BucketAiGrade10},
	{model.CompanyAiGrade, 9, model.BucketAiGrade9},
}

// Bucketizer routes sale candidates into grade buckets using a rule set.
type Bucketizer struct {
	rules rules.Classifier
}

// New returns a Bucketizer backed by the given rule set.
func New(r rules.Classifier) *Bucketizer {
	return &Bucketizer{rules: r}
}

// Assign partitions candidates into buckets. Lot titles are dropped; the
// union of the returned buckets contains every other candidate exactly once.
func (b *Bucketizer) Assign(candidates []model.SaleCandidate) map[model.Bucket][]model.SaleCandidate {
	out := make(map[model.Bucket][]model.SaleCandidate)
	for _, c := range candidates {
		if isLot(c.Title) {
			continue
		}
		bucket := b.route(c)
		out[bucket] = append(out[bucket], c)
	}
	return out
}

// Route classifies a single candidate.
func (b *Bucketizer) Route(c model.SaleCandidate) (model.Bucket, bool) {
	if isLot(c.Title) {
		return "", false
	}
	return b.route(c), true
}

func (b *Bucketizer) route(c model.SaleCandidate) model.Bucket {
	grades := b.rules.MatchAllGrades(c.Title)

	// Condition metadata that unambiguously says "graded" routes by title
	// pattern, but never to raw: when the title gives no specific
	// company+grade, the sale still belongs with the other graded cards.
	if gradedConditionIDs[c.ConditionID] {
		if bucket, ok := claim(grades); ok {
			return bucket
		}
		return model.BucketOtherGraded
	}

	if bucket, ok := claim(grades); ok {
		return bucket
	}

	// A company mention or an unclaimed grade pair (half grades, BGS, low
	// grades) means graded-but-unbucketed rather than raw.
	if len(grades) > 0 ||
		b.rules.HasCompanyToken(c.Title) ||
		b.rules.HasCompanyToken(c.Condition) {
		return model.BucketOtherGraded
	}

	return model.BucketRaw
}

// claim walks the bucket order and returns the first bucket whose
// company+grade pair appears in the title's grade set. Half grades never
// satisfy a whole-number bucket.
func claim(grades []model.GradeInfo) (model.Bucket, bool) {
	for _, gb := range gradeBuckets {
		for _, g := range grades {
			if g.Half || g.IsRaw {
				continue
			}
			if g.Company == gb.company && g.WholeGrade() == gb.grade {
				return gb.bucket, true
			}
		}
	}
	return "", false
}

func isLot(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range lotMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
