// Package advisory turns a synthesized price series into a trend label and a
// sell/hold recommendation.
package advisory

import (
	"fmt"
	"math"

	"github.com/seenimoa/agripulse/pkg/models"
)

// TrendThreshold is the month-over-month move, in percent, beyond which the
// trend is no longer Stable. The comparison is strict.
const TrendThreshold = 1.5

// Classify derives the trend and recommendation for series around the
// current month. base is the price used when the current month has no actual
// value. Classify never fails: a missing previous month compares the current
// price with itself, and a series without forecast months leaves the
// recommended month and price nil.
func Classify(series []models.MonthPoint, current int, base float64) models.ClassificationResult {
	cur := base
	if v := actualAt(series, current); v != nil {
		cur = *v
	}
	prev := cur
	if v := actualAt(series, current-1); v != nil && *v != 0 {
		prev = *v
	}

	pct := PctChange(cur, prev)
	trend := TrendFor(pct)

	res := models.ClassificationResult{
		CurrentPrice:   cur,
		PreviousPrice:  prev,
		PctChange:      pct,
		Trend:          trend,
		Recommendation: RecommendationFor(trend),
	}

	if best, ok := BestForecastMonth(series); ok {
		month := best.Month
		price := *best.Predicted
		res.RecommendedMonth = &month
		res.RecommendedPrice = &price
	}
	res.Reason = reason(res)
	return res
}

// PctChange returns the percent change from prev to cur rounded to one
// decimal. A zero prev yields 0.
func PctChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return math.Round((cur-prev)/prev*100*10) / 10
}

// TrendFor labels a percent change.
func TrendFor(pct float64) models.Trend {
	switch {
	case pct > TrendThreshold:
		return models.TrendBullish
	case pct < -TrendThreshold:
		return models.TrendBearish
	default:
		return models.TrendStable
	}
}

// RecommendationFor maps a trend to its recommendation: hold into a rising
// market, sell into a falling one, and otherwise sell at the forecast peak.
func RecommendationFor(t models.Trend) models.RecommendationKind {
	switch t {
	case models.TrendBullish:
		return models.RecommendHold
	case models.TrendBearish:
		return models.RecommendSell
	default:
		return models.RecommendSellAtPeak
	}
}

// BestForecastMonth returns the forecast month with the highest predicted
// price. Ties keep the earliest month. ok is false when no month is a
// forecast with a predicted price.
func BestForecastMonth(series []models.MonthPoint) (best models.MonthPoint, ok bool) {
	for _, p := range series {
		if !p.IsForecast || p.Predicted == nil {
			continue
		}
		if !ok || *p.Predicted > *best.Predicted {
			best, ok = p, true
		}
	}
	return best, ok
}

func actualAt(series []models.MonthPoint, i int) *float64 {
	if i < 0 || i >= len(series) {
		return nil
	}
	return series[i].Actual
}

func reason(r models.ClassificationResult) string {
	target := "the forecast peak"
	if r.HasTarget() {
		target = *r.RecommendedMonth
	}
	switch r.Recommendation {
	case models.RecommendHold:
		return fmt.Sprintf("Hold stock, best price expected in %s", target)
	case models.RecommendSell:
		return "Sell soon before further price decline"
	default:
		return fmt.Sprintf("Sell in %s for maximum returns", target)
	}
}
