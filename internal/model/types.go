package model

import "time"

// SaleCandidate is one completed sale as reported by a marketplace fetcher.
// Titles are never empty inside a result set; fetchers drop empty-title rows
// and coerce unparseable prices to 0 before handing candidates to the core.
type SaleCandidate struct {
	Title       string     `json:"title"`
	Price       float64    `json:"price"`
	Currency    string     `json:"currency"`
	SoldDate    *time.Time `json:"soldDate,omitempty"`
	Condition   string     `json:"condition,omitempty"`
	ConditionID string     `json:"conditionId,omitempty"`
}

// GradingCompany identifies who slabbed a card.
type GradingCompany string

const (
	CompanyPSA     GradingCompany = "PSA"
	CompanyBGS     GradingCompany = "BGS"
	CompanySGC     GradingCompany = "SGC"
	CompanyCGC     GradingCompany = "CGC"
	CompanyTAG     GradingCompany = "TAG"
	CompanyAiGrade GradingCompany = "AIGRADE"
	CompanyOther   GradingCompany = "OTHER"
	CompanyNone    GradingCompany = "NONE"
)

// GradeInfo is the grading state parsed out of a listing title.
// Half marks decimal grades (9.5); those count as graded but never route
// to a whole-number bucket.
type GradeInfo struct {
	Company GradingCompany
	Grade   float64
	Half    bool
	IsRaw   bool
}

// Raw is the GradeInfo for an ungraded card.
func Raw() GradeInfo {
	return GradeInfo{Company: CompanyNone, IsRaw: true}
}

// WholeGrade returns the integer grade used for bucket routing.
func (g GradeInfo) WholeGrade() int {
	return int(g.Grade)
}

// Sport tags a title with the single sport it was detected as.
type Sport string

const (
	SportBasketball Sport = "basketball"
	SportFootball   Sport = "football"
	SportBaseball   Sport = "baseball"
	SportHockey     Sport = "hockey"
	SportSoccer     Sport = "soccer"
	SportWrestling  Sport = "wrestling"
	SportPokemon    Sport = "pokemon"
	SportUnknown    Sport = "unknown"
)

// AllSports lists every detectable sport in detection priority order.
func AllSports() []Sport {
	return []Sport{
		SportBasketball,
		SportFootball,
		SportBaseball,
		SportHockey,
		SportSoccer,
		SportWrestling,
		SportPokemon,
	}
}

// ParallelClassification captures the two independent parallel signals for a
// title. A candidate is excluded from averaging only when it carries an
// expensive marker without also matching the sport's base allow-list.
type ParallelClassification struct {
	HasExpensiveParallel bool
	IsBaseParallel       bool
}

// Rejected reports whether the parallel signals exclude the listing.
func (p ParallelClassification) Rejected() bool {
	return p.HasExpensiveParallel && !p.IsBaseParallel
}

// Bucket names one of the fixed grade buckets a sale can land in.
type Bucket string

const (
	BucketRaw         Bucket = "raw"
	BucketPSA7        Bucket = "psa7"
	BucketPSA8        Bucket = "psa8"
	BucketPSA9        Bucket = "psa9"
	BucketPSA10       Bucket = "psa10"
	BucketCGC9        Bucket = "cgc9"
	BucketCGC10       Bucket = "cgc10"
	BucketTAG8        Bucket = "tag8"
	BucketTAG9        Bucket = "tag9"
	BucketTAG10       Bucket = "tag10"
	BucketSGC10       Bucket = "sgc10"
	BucketAiGrade9    Bucket = "aigrade9"
	BucketAiGrade10   Bucket = "aigrade10"
	BucketOtherGraded Bucket = "otherGraded"
)

// AllBuckets lists the 14 buckets. Every classified candidate lands in
// exactly one of these.
func AllBuckets() []Bucket {
	return []Bucket{
		BucketRaw,
		BucketPSA7, BucketPSA8, BucketPSA9, BucketPSA10,
		BucketCGC9, BucketCGC10,
		BucketTAG8, BucketTAG9, BucketTAG10,
		BucketSGC10,
		BucketAiGrade9, BucketAiGrade10,
		BucketOtherGraded,
	}
}

// Trend is a recency signal over a bucket's sales.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// BucketStats summarizes one bucket's sales. Count covers every candidate in
// the bucket; the price fields cover only positive-price sales and are 0,
// never NaN, when that subset is empty.
type BucketStats struct {
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	Trend    Trend   `json:"trend"`
}

// PairKey names an ordered bucket pair, e.g. "rawToPsa10".
type PairKey string

const (
	PairRawToPSA7        PairKey = "rawToPsa7"
	PairRawToPSA8        PairKey = "rawToPsa8"
	PairRawToPSA9        PairKey = "rawToPsa9"
	PairRawToPSA10       PairKey = "rawToPsa10"
	PairPSA9ToPSA10      PairKey = "psa9ToPsa10"
	PairRawToCGC9        PairKey = "rawToCgc9"
	PairRawToCGC10       PairKey = "rawToCgc10"
	PairCGC9ToCGC10      PairKey = "cgc9ToCgc10"
	PairRawToAiGrade9    PairKey = "rawToAigrade9"
	PairRawToAiGrade10   PairKey = "rawToAigrade10"
	PairRawToOtherGraded PairKey = "rawToOtherGraded"
)

// Comparison is the price delta between two buckets, present only when both
// sides have a positive average.
type Comparison struct {
	DollarDiff  float64 `json:"dollarDiff"`
	PercentDiff float64 `json:"percentDiff"`
	Description string  `json:"description"`
}

// CardRecord is the pure view of a persisted card the core reads and
// produces price updates for. The storage layer owns the row's lifecycle.
type CardRecord struct {
	ID               string
	Title            string
	SummaryTitle     string
	Sport            Sport
	RawAveragePrice  float64
	Psa9AveragePrice float64
	Psa10Price       float64
	PriceComparisons string // JSON blob of map[PairKey]Comparison
	LastUpdated      time.Time
}

// PriceUpdate is what an aggregation pass hands back to storage.
type PriceUpdate struct {
	RawAveragePrice  float64
	Psa9AveragePrice float64
	Psa10Price       float64
	PriceComparisons string
}
