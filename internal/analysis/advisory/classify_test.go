package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/agripulse/internal/synth"
	"github.com/seenimoa/agripulse/pkg/models"
)

func price(v float64) *float64 { return &v }

// makeSeries builds a series with the given actual prices up to current and
// predicted prices after it.
func makeSeries(actual []float64, predicted []float64) []models.MonthPoint {
	current := len(actual) - 1
	var series []models.MonthPoint
	for i, a := range actual {
		p := models.MonthPoint{Month: models.CalendarMonths[i], Actual: price(a), Average: a}
		if i == current {
			p.Predicted = price(a)
		}
		series = append(series, p)
	}
	for j, f := range predicted {
		i := current + 1 + j
		series = append(series, models.MonthPoint{
			Month:      models.CalendarMonths[i],
			Predicted:  price(f),
			Average:    f,
			IsForecast: true,
		})
	}
	return series
}

func TestTrendForBoundaries(t *testing.T) {
	tests := []struct {
		pct  float64
		want models.Trend
	}{
		{1.6, models.TrendBullish},
		{1.5, models.TrendStable},
		{0, models.TrendStable},
		{-1.5, models.TrendStable},
		{-1.6, models.TrendBearish},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrendFor(tt.pct), "pct %.1f", tt.pct)
	}
}

func TestPctChange(t *testing.T) {
	assert.Equal(t, 1.5, PctChange(203, 200))
	assert.Equal(t, -1.5, PctChange(197, 200))
	assert.Equal(t, 4.8, PctChange(2306, 2200))
	assert.Equal(t, 0.0, PctChange(100, 0))
}

func TestClassifyExactBoundaryIsStable(t *testing.T) {
	up := Classify(makeSeries([]float64{200, 203}, []float64{210}), 1, 200)
	assert.Equal(t, 1.5, up.PctChange)
	assert.Equal(t, models.TrendStable, up.Trend)
	assert.Equal(t, models.RecommendSellAtPeak, up.Recommendation)

	down := Classify(makeSeries([]float64{200, 197}, []float64{210}), 1, 200)
	assert.Equal(t, -1.5, down.PctChange)
	assert.Equal(t, models.TrendStable, down.Trend)
}

func TestClassifyRecommendations(t *testing.T) {
	tests := []struct {
		name      string
		actual    []float64
		wantTrend models.Trend
		wantRec   models.RecommendationKind
		reason    string
	}{
		{"rising", []float64{100, 110}, models.TrendBullish, models.RecommendHold, "Hold stock, best price expected in Apr"},
		{"falling", []float64{110, 100}, models.TrendBearish, models.RecommendSell, "Sell soon before further price decline"},
		{"flat", []float64{100, 101}, models.TrendStable, models.RecommendSellAtPeak, "Sell in Apr for maximum returns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(makeSeries(tt.actual, []float64{100, 140, 120}), 1, 100)
			assert.Equal(t, tt.wantTrend, res.Trend)
			assert.Equal(t, tt.wantRec, res.Recommendation)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestBestForecastMonthPicksMaximum(t *testing.T) {
	for _, predicted := range [][]float64{{100, 140, 120}, {140, 100, 120}, {100, 120, 140}} {
		series := makeSeries([]float64{100}, predicted)
		best, ok := BestForecastMonth(series)
		require.True(t, ok)
		assert.Equal(t, 140.0, *best.Predicted)
	}
}

func TestBestForecastMonthTieKeepsFirst(t *testing.T) {
	series := makeSeries([]float64{100}, []float64{120, 150, 150})
	best, ok := BestForecastMonth(series)
	require.True(t, ok)
	assert.Equal(t, "Mar", best.Month)
}

func TestBestForecastMonthIgnoresCurrentMonth(t *testing.T) {
	// The current month carries a predicted price but is not a forecast.
	series := makeSeries([]float64{100, 500}, []float64{120})
	best, ok := BestForecastMonth(series)
	require.True(t, ok)
	assert.Equal(t, 120.0, *best.Predicted)
}

func TestClassifyEmptyForecast(t *testing.T) {
	wheat := models.Commodity{ID: "wheat", BasePrice: 2200}
	series := synth.PriceSeries(wheat, models.CalendarMonths, 11)

	var res models.ClassificationResult
	require.NotPanics(t, func() { res = Classify(series, 11, wheat.BasePrice) })
	assert.Nil(t, res.RecommendedMonth)
	assert.Nil(t, res.RecommendedPrice)
	assert.False(t, res.HasTarget())
	assert.NotEmpty(t, res.Reason)
}

func TestClassifyFirstMonthUsesCurrentAsPrevious(t *testing.T) {
	series := makeSeries([]float64{150}, []float64{160})
	res := Classify(series, 0, 999)
	assert.Equal(t, 150.0, res.CurrentPrice)
	assert.Equal(t, 150.0, res.PreviousPrice)
	assert.Zero(t, res.PctChange)
	assert.Equal(t, models.TrendStable, res.Trend)
}

func TestClassifyMissingCurrentFallsBackToBase(t *testing.T) {
	res := Classify(nil, 6, 2200)
	assert.Equal(t, 2200.0, res.CurrentPrice)
	assert.Equal(t, 2200.0, res.PreviousPrice)
	assert.Equal(t, models.TrendStable, res.Trend)
	assert.False(t, res.HasTarget())
}

func TestClassifyZeroPreviousPrice(t *testing.T) {
	res := Classify(makeSeries([]float64{0, 100}, []float64{110}), 1, 100)
	assert.Equal(t, 100.0, res.PreviousPrice)
	assert.Zero(t, res.PctChange)
}

func TestClassifySynthesizedMaize(t *testing.T) {
	maize := models.Commodity{ID: "maize", BasePrice: 1750}
	series := synth.PriceSeries(maize, models.CalendarMonths, 6)
	res := Classify(series, 6, maize.BasePrice)

	assert.Equal(t, *series[6].Actual, res.CurrentPrice)
	assert.Equal(t, *series[5].Actual, res.PreviousPrice)
	assert.Equal(t, PctChange(res.CurrentPrice, res.PreviousPrice), res.PctChange)
	require.True(t, res.HasTarget())

	best, _ := BestForecastMonth(series)
	assert.Equal(t, best.Month, *res.RecommendedMonth)
	for _, p := range series[7:] {
		assert.LessOrEqual(t, *p.Predicted, *res.RecommendedPrice)
	}
}
