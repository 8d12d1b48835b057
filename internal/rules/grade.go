package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/guarzo/cardgap/internal/model"
)

// Grade parsing patterns, highest precedence first. The company pattern
// accepts both spaced ("PSA 10") and glued ("PSA10") forms plus common
// separators sellers use ("PSA-10", "PSA: 10").
var (
	psaMintPattern = regexp.MustCompile(`(?i)\bpsa\s+mint\s+((?:10|[1-9])(?:\.5)?)\b`)

	companyGradePattern = regexp.MustCompile(`(?i)\b(psa|beckett|bgs|cgc|sgc|tag|aigrade|ai grade|gma|hga)[\s:\-#]*((?:10|[1-9])(?:\.5)?)\b`)
)

var companyTokens = map[string]model.GradingCompany{
	"psa":      model.CompanyPSA,
	"beckett":  model.CompanyBGS,
	"bgs":      model.CompanyBGS,
	"cgc":      model.CompanyCGC,
	"sgc":      model.CompanySGC,
	"tag":      model.CompanyTAG,
	"aigrade":  model.CompanyAiGrade,
	"ai grade": model.CompanyAiGrade,
	"gma":      model.CompanyOther,
	"hga":      model.CompanyOther,
}

// MatchGrade parses the grading company and grade out of a title, or reports
// raw when nothing matches. Exactly one grade is ever returned: the highest
// precedence pattern claims the title and later patterns are not consulted.
func (r *RuleSet) MatchGrade(title string) model.GradeInfo {
	if m := psaMintPattern.FindStringSubmatch(title); m != nil {
		return gradeFrom(model.CompanyPSA, m[1])
	}

	if m := companyGradePattern.FindStringSubmatch(title); m != nil {
		company, ok := companyTokens[strings.ToLower(m[1])]
		if !ok {
			company = model.CompanyOther
		}
		return gradeFrom(company, m[2])
	}

	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "psa 10") || strings.Contains(lower, "gem mint"):
		return gradeFrom(model.CompanyPSA, "10")
	case strings.Contains(lower, "psa 9") || strings.Contains(lower, "mint 9"):
		return gradeFrom(model.CompanyPSA, "9")
	case strings.Contains(lower, "psa 8") || strings.Contains(lower, "mint 8"):
		return gradeFrom(model.CompanyPSA, "8")
	case strings.Contains(lower, "psa 7") || strings.Contains(lower, "mint 7"):
		return gradeFrom(model.CompanyPSA, "7")
	}

	return model.Raw()
}

// MatchAllGrades returns every company+grade pair found in the title, in
// order of appearance. Unlike MatchGrade it does not stop at the first hit;
// the bucketizer uses the full set so that its own precedence order (PSA
// before CGC before TAG, high grade before low) decides which bucket claims
// a title that mentions several companies.
func (r *RuleSet) MatchAllGrades(title string) []model.GradeInfo {
	var grades []model.GradeInfo

	for _, m := range psaMintPattern.FindAllStringSubmatch(title, -1) {
		grades = append(grades, gradeFrom(model.CompanyPSA, m[1]))
	}
	for _, m := range companyGradePattern.FindAllStringSubmatch(title, -1) {
		company, ok := companyTokens[strings.ToLower(m[1])]
		if !ok {
			company = model.CompanyOther
		}
		grades = append(grades, gradeFrom(company, m[2]))
	}

	// Literal fallbacks participate too, so "Gem Mint" titles without an
	// explicit "PSA 10" still reach the PSA10 bucket.
	if g := r.MatchGrade(title); !g.IsRaw {
		grades = append(grades, g)
	}

	return grades
}

var companyTokenPattern = regexp.MustCompile(`(?i)\b(psa|beckett|bgs|cgc|sgc|tag|aigrade|ai grade|gma|hga)\b`)

// HasCompanyToken reports whether any grading-company token appears in the
// text, regardless of whether a grade number accompanies it.
func (r *RuleSet) HasCompanyToken(text string) bool {
	return companyTokenPattern.MatchString(text)
}

func gradeFrom(company model.GradingCompany, raw string) model.GradeInfo {
	grade, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Pattern guarantees a parseable number; treat anything else as raw.
		return model.Raw()
	}
	return model.GradeInfo{
		Company: company,
		Grade:   grade,
		Half:    strings.HasSuffix(raw, ".5"),
	}
}
