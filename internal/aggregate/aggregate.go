// Package aggregate computes per-bucket price statistics and cross-bucket
// comparisons. All functions are pure: same bucket map in, same stats out.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/guarzo/cardgap/internal/model"
)

// Trend thresholds: the recent half must move 5% past the older half's mean
// before a bucket reads as anything but neutral. Fewer than minTrendSales
// dated sales always reads neutral.
const (
	trendUpFactor   = 1.05
	trendDownFactor = 0.95
	minTrendSales   = 3
)

// comparisonPairs is the fixed set of ordered bucket pairs worth reporting.
var comparisonPairs = []struct {
	from  model.Bucket
	to    model.Bucket
	key   model.PairKey
	label string
}{
	{model.BucketRaw, model.BucketPSA7, model.PairRawToPSA7, "Raw to PSA 7"},
	{model.BucketRaw, model.BucketPSA8, model.PairRawToPSA8, "Raw to PSA 8"},
	{model.BucketRaw, model.BucketPSA9, model.PairRawToPSA9, "Raw to PSA 9"},
	{model.BucketRaw, model.BucketPSA10, model.PairRawToPSA10, "Raw to PSA 10"},
	{model.BucketPSA9, model.BucketPSA10, model.PairPSA9ToPSA10, "PSA 9 to PSA 10"},
	{model.BucketRaw, model.BucketCGC9, model.PairRawToCGC9, "Raw to CGC 9"},
	{model.BucketRaw, model.BucketCGC10, model.PairRawToCGC10, "Raw to CGC 10"},
	{model.BucketCGC9, model.BucketCGC10, model.PairCGC9ToCGC10, "CGC 9 to CGC 10"},
	{model.BucketRaw, model.BucketAiGrade9, model.PairRawToAiGrade9, "Raw to AiGrade 9"},
	{model.BucketRaw, model.BucketAiGrade10, model.PairRawToAiGrade10, "Raw to AiGrade 10"},
	{model.BucketRaw, model.BucketOtherGraded, model.PairRawToOtherGraded, "Raw to other graded"},
}

// Aggregate computes stats for every bucket plus the comparison set.
func Aggregate(buckets map[model.Bucket][]model.SaleCandidate) (map[model.Bucket]model.BucketStats, map[model.PairKey]model.Comparison) {
	stats := Stats(buckets)
	return stats, Comparisons(stats)
}

// Stats summarizes each bucket. Count includes zero-price sales; the price
// fields cover the positive-price subset only and are 0 when it is empty.
func Stats(buckets map[model.Bucket][]model.SaleCandidate) map[model.Bucket]model.BucketStats {
	out := make(map[model.Bucket]model.BucketStats, len(buckets))
	for bucket, sales := range buckets {
		out[bucket] = bucketStats(sales)
	}
	return out
}

func bucketStats(sales []model.SaleCandidate) model.BucketStats {
	stats := model.BucketStats{
		Count: len(sales),
		Trend: model.TrendNeutral,
	}

	var sum float64
	priced := 0
	for _, s := range sales {
		if s.Price <= 0 {
			continue
		}
		if priced == 0 || s.Price < stats.MinPrice {
			stats.MinPrice = s.Price
		}
		if s.Price > stats.MaxPrice {
			stats.MaxPrice = s.Price
		}
		sum += s.Price
		priced++
	}
	if priced > 0 {
		stats.AvgPrice = round2(sum / float64(priced))
	}
	stats.Trend = trend(sales)
	return stats
}

// trend splits the dated positive-price sales into a recent half and an
// older half by sold date and compares the halves' means.
func trend(sales []model.SaleCandidate) model.Trend {
	dated := make([]model.SaleCandidate, 0, len(sales))
	for _, s := range sales {
		if s.SoldDate != nil && s.Price > 0 {
			dated = append(dated, s)
		}
	}
	if len(dated) < minTrendSales {
		return model.TrendNeutral
	}

	sort.Slice(dated, func(i, j int) bool {
		return dated[i].SoldDate.After(*dated[j].SoldDate)
	})

	split := (len(dated) + 1) / 2
	recentMean := meanPrice(dated[:split])
	olderMean := meanPrice(dated[split:])
	if olderMean <= 0 {
		return model.TrendNeutral
	}

	switch {
	case recentMean > olderMean*trendUpFactor:
		return model.TrendUp
	case recentMean < olderMean*trendDownFactor:
		return model.TrendDown
	default:
		return model.TrendNeutral
	}
}

func meanPrice(sales []model.SaleCandidate) float64 {
	if len(sales) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sales {
		sum += s.Price
	}
	return sum / float64(len(sales))
}

// Comparisons emits a delta for each fixed bucket pair where both sides have
// a positive average. Missing entries are a data-quality signal, not an
// error.
func Comparisons(stats map[model.Bucket]model.BucketStats) map[model.PairKey]model.Comparison {
	out := make(map[model.PairKey]model.Comparison)
	for _, pair := range comparisonPairs {
		from, to := stats[pair.from], stats[pair.to]
		if from.AvgPrice <= 0 || to.AvgPrice <= 0 {
			continue
		}
		dollar := round2(to.AvgPrice - from.AvgPrice)
		percent := round1(dollar / from.AvgPrice * 100)
		out[pair.key] = model.Comparison{
			DollarDiff:  dollar,
			PercentDiff: percent,
			Description: fmt.Sprintf("%s: %+.2f USD (%+.1f%%)", pair.label, dollar, percent),
		}
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
