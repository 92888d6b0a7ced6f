package synth

import (
	"math"

	"github.com/seenimoa/agripulse/pkg/models"
)

// Price model coefficients, as fractions of the base price.
const (
	seasonalAmplitude = 0.12
	seasonalPhase     = 1.0 // radians
	noiseSpan         = 0.08
	trendPerMonth     = 0.012
	averageSpan       = 0.06
)

// PriceSeries synthesizes one MonthPoint per entry in months for the
// commodity. Months up to and including current are actual, months from
// current onward are predicted, so the current month carries both.
//
// current is not clamped: a negative index makes every month a forecast and
// an index past the last month leaves none.
func PriceSeries(c models.Commodity, months []string, current int) []models.MonthPoint {
	base := c.BasePrice
	noise := StreamPriceNoise.For(base)
	avg := StreamAverage.For(base)

	span := float64(len(months) - 1)
	if span < 1 {
		span = 1
	}

	points := make([]models.MonthPoint, len(months))
	for i, label := range months {
		seasonal := math.Sin(float64(i)/span*2*math.Pi-seasonalPhase) * base * seasonalAmplitude
		n := (noise.Next() - 0.5) * base * noiseSpan
		var trend float64
		if i > current {
			trend = float64(i-current) * base * trendPerMonth
		}
		price := math.Round(base + seasonal + n + trend)

		p := models.MonthPoint{
			Month:      label,
			Average:    math.Round(base * (1 + (avg.Next()-0.5)*averageSpan)),
			IsForecast: i > current,
		}
		if i <= current {
			p.Actual = float64Ptr(price)
		}
		if i >= current {
			p.Predicted = float64Ptr(price)
		}
		points[i] = p
	}
	return points
}

func float64Ptr(v float64) *float64 { return &v }
