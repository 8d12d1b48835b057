// Package search turns a stored card's title into ranked marketplace search
// queries for the fetch collaborator. Earlier strategies are more specific;
// the fetcher tries each in order and stops at the first that returns sales.
package search

import (
	"regexp"
	"strings"
)

// maxStrategies caps the query list after de-duplication.
const maxStrategies = 5

// Strategy is the search plan for one card.
type Strategy struct {
	Identifier string   `json:"identifier"`
	Queries    []string `json:"strategies"`
}

var (
	yearPattern       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	cardNumberPattern = regexp.MustCompile(`#\d+`)
	serialPattern     = regexp.MustCompile(`\b\d+/\d+\b`)
	certPattern       = regexp.MustCompile(`(?i)\bcert\b.*$`)
	capitalizedWord   = regexp.MustCompile(`^[A-Z][a-zA-Z'.]+$`)
)

// knownSets are product lines worth anchoring a query on when they appear
// in a title.
var knownSets = []string{
	"topps chrome", "bowman chrome", "stadium club", "upper deck",
	"prizm", "optic", "select", "mosaic", "donruss", "skybox", "fleer",
	"evolving skies", "phoenix", "absolute", "score",
}

// exclusionTerms are appended to keyword queries with a "-" prefix so the
// marketplace filters out expensive parallels at the source.
var exclusionTerms = []string{
	"gold", "black", "red", "blue", "green", "purple", "pink", "orange",
	"bronze", "rainbow", "superfractor", "ssp", "mojo", "shimmer",
	"auto", "autograph", "patch", "1/1",
}

// brandWords never count as part of a player-name guess.
var brandWords = map[string]bool{
	"Topps": true, "Panini": true, "Bowman": true, "Donruss": true,
	"Fleer": true, "Skybox": true, "Upper": true, "Deck": true,
	"Prizm": true, "Optic": true, "Select": true, "Mosaic": true,
	"Chrome": true, "Refractor": true, "Rookie": true, "Card": true,
	"Gem": true, "Mint": true, "Engine": true, "Cert": true,
	"Football": true, "Basketball": true, "Baseball": true, "Hockey": true,
	"Soccer": true, "Pokemon": true,
	"PSA": true, "BGS": true, "CGC": true, "SGC": true, "TAG": true,
}

// BuildStrategies produces the ranked query list for a card. The summary
// title (when set) is preferred as the identifier source since it has
// already been normalized by the importer.
func BuildStrategies(title, summaryTitle string) Strategy {
	source := summaryTitle
	if source == "" {
		source = title
	}

	identifier := cleanIdentifier(source)
	year := yearPattern.FindString(source)
	player := guessPlayerName(source)
	number := cardNumberPattern.FindString(source)
	set := detectSet(source)
	exclusions := exclusionSuffix()

	var queries []string
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}

	add(identifier)
	if year != "" && player != "" {
		if number != "" {
			add(year + " " + player + " " + number + exclusions)
		}
		add(year + " " + player + exclusions)
		if set != "" {
			add(set + " " + year + " " + player + exclusions)
		}
		add(player + " " + year)
	}
	add(player)

	return Strategy{
		Identifier: identifier,
		Queries:    dedupe(queries, maxStrategies),
	}
}

// cleanIdentifier strips numbering and certification noise that hurts
// marketplace matching: trailing serials ("/150"), cert suffixes, trailing
// card numbers, and trailing hyphen segments.
func cleanIdentifier(title string) string {
	out := certPattern.ReplaceAllString(title, "")
	out = serialPattern.ReplaceAllString(out, "")

	// A trailing card number is noise; a leading or middle one anchors the
	// search and stays.
	out = strings.TrimSpace(out)
	if m := cardNumberPattern.FindAllStringIndex(out, -1); len(m) > 0 {
		last := m[len(m)-1]
		if last[1] == len(out) {
			out = out[:last[0]]
		}
	}

	// Trailing hyphen segments are seller chatter ("... - MINT - LOOK").
	if idx := strings.LastIndex(out, " - "); idx > len(out)/2 {
		out = out[:idx]
	}

	return strings.Join(strings.Fields(out), " ")
}

// guessPlayerName takes the first run of two or more capitalized words that
// are not brand or product terms.
func guessPlayerName(title string) string {
	var run []string
	for _, tok := range strings.Fields(title) {
		tok = strings.Trim(tok, "()[]!,.")
		if capitalizedWord.MatchString(tok) && !brandWords[tok] {
			run = append(run, tok)
			continue
		}
		if len(run) >= 2 {
			break
		}
		run = run[:0]
	}
	if len(run) < 2 {
		return ""
	}
	return strings.Join(run[:2], " ")
}

func detectSet(title string) string {
	lower := strings.ToLower(title)
	for _, set := range knownSets {
		if strings.Contains(lower, set) {
			return set
		}
	}
	return ""
}

func exclusionSuffix() string {
	var b strings.Builder
	for _, term := range exclusionTerms {
		b.WriteString(" -")
		b.WriteString(term)
	}
	return b.String()
}

func dedupe(queries []string, max int) []string {
	seen := make(map[string]bool, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
		if len(out) == max {
			break
		}
	}
	return out
}
