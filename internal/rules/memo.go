package rules

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/guarzo/cardgap/internal/model"
)

// Classifier is the narrow interface the filter and bucketizer consume.
// RuleSet and Memoized both satisfy it, so callers don't care whether
// lookups are memoized.
type Classifier interface {
	DetectSport(title string) model.Sport
	MatchGrade(title string) model.GradeInfo
	MatchAllGrades(title string) []model.GradeInfo
	HasCompanyToken(text string) bool
	ClassifyParallel(sport model.Sport, title string) model.ParallelClassification
	PriceCeiling(sport model.Sport) float64
}

// Memoized wraps a RuleSet with per-title LRU caches. Classification is pure,
// so memoized results never go stale; the cache just avoids re-scanning the
// keyword tables when the same title is classified for several target
// buckets within one batch.
type Memoized struct {
	rules  *RuleSet
	grades *lru.Cache[string, model.GradeInfo]
	sports *lru.Cache[string, model.Sport]
}

// NewMemoized wraps rs with caches holding up to size titles each.
func NewMemoized(rs *RuleSet, size int) (*Memoized, error) {
	grades, err := lru.New[string, model.GradeInfo](size)
	if err != nil {
		return nil, fmt.Errorf("grade cache: %w", err)
	}
	sports, err := lru.New[string, model.Sport](size)
	if err != nil {
		return nil, fmt.Errorf("sport cache: %w", err)
	}
	return &Memoized{rules: rs, grades: grades, sports: sports}, nil
}

func (m *Memoized) DetectSport(title string) model.Sport {
	if sport, ok := m.sports.Get(title); ok {
		return sport
	}
	sport := m.rules.DetectSport(title)
	m.sports.Add(title, sport)
	return sport
}

func (m *Memoized) MatchGrade(title string) model.GradeInfo {
	if grade, ok := m.grades.Get(title); ok {
		return grade
	}
	grade := m.rules.MatchGrade(title)
	m.grades.Add(title, grade)
	return grade
}

func (m *Memoized) MatchAllGrades(title string) []model.GradeInfo {
	return m.rules.MatchAllGrades(title)
}

func (m *Memoized) HasCompanyToken(text string) bool {
	return m.rules.HasCompanyToken(text)
}

func (m *Memoized) ClassifyParallel(sport model.Sport, title string) model.ParallelClassification {
	return m.rules.ClassifyParallel(sport, title)
}

func (m *Memoized) PriceCeiling(sport model.Sport) float64 {
	return m.rules.PriceCeiling(sport)
}
