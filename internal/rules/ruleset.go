// Package rules implements the title-inference rule engine: sport detection,
// grade extraction, and parallel classification over free-text auction
// titles. Rule tables are immutable data injected at construction so tests
// can run against reduced sets and the tables can later move to data files.
package rules

import (
	"strings"

	"github.com/guarzo/cardgap/internal/model"
)

// SportKeywords is one sport's keyword union: the sport name, league
// abbreviation, star-player names, and team/brand terms. Matching is
// case-insensitive substring over the whole title.
type SportKeywords struct {
	Sport    model.Sport
	Keywords []string
}

// Config carries every rule table the engine needs. All slices are matched
// as lowercased substrings.
type Config struct {
	// Sports in detection priority order; first match wins.
	Sports []SportKeywords

	// Parallel exclusion terms shared by every sport.
	UniversalExpensive []string
	UniversalPremium   []string

	// Per-sport additions to the exclusion set.
	SportPremium map[model.Sport][]string

	// Per-sport base-parallel allow-lists. A base hit overrides an
	// expensive hit.
	SportBase map[model.Sport][]string

	// Per-sport price ceilings in USD for the listing filter.
	Ceilings       map[model.Sport]float64
	DefaultCeiling float64
}

// RuleSet is an immutable compiled rule engine. Safe for concurrent use.
type RuleSet struct {
	sports             []sportMatcher
	universalExclusion []string
	sportPremium       map[model.Sport][]string
	sportBase          map[model.Sport][]string
	ceilings           map[model.Sport]float64
	defaultCeiling     float64
}

type sportMatcher struct {
	sport    model.Sport
	keywords []string
}

// New compiles a Config into a RuleSet. Keyword tables are lowercased once
// here so classification passes only pay for strings.Contains.
func New(cfg Config) *RuleSet {
	rs := &RuleSet{
		sportPremium:   make(map[model.Sport][]string, len(cfg.SportPremium)),
		sportBase:      make(map[model.Sport][]string, len(cfg.SportBase)),
		ceilings:       make(map[model.Sport]float64, len(cfg.Ceilings)),
		defaultCeiling: cfg.DefaultCeiling,
	}

	for _, s := range cfg.Sports {
		rs.sports = append(rs.sports, sportMatcher{
			sport:    s.Sport,
			keywords: lowerAll(s.Keywords),
		})
	}

	rs.universalExclusion = append(rs.universalExclusion, lowerAll(cfg.UniversalExpensive)...)
	rs.universalExclusion = append(rs.universalExclusion, lowerAll(cfg.UniversalPremium)...)

	for sport, terms := range cfg.SportPremium {
		rs.sportPremium[sport] = lowerAll(terms)
	}
	for sport, terms := range cfg.SportBase {
		rs.sportBase[sport] = lowerAll(terms)
	}
	for sport, ceiling := range cfg.Ceilings {
		rs.ceilings[sport] = ceiling
	}

	return rs
}

// Default returns the production rule set.
func Default() *RuleSet {
	return New(defaultConfig())
}

// PriceCeiling returns the base price ceiling in USD for a sport.
func (r *RuleSet) PriceCeiling(sport model.Sport) float64 {
	if c, ok := r.ceilings[sport]; ok {
		return c
	}
	return r.defaultCeiling
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

func containsAny(lowerTitle string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lowerTitle, t) {
			return true
		}
	}
	return false
}
