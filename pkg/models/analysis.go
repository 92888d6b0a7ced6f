package models

// Trend represents the month-over-month price direction.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendStable  Trend = "Stable"
)

// RecommendationKind represents what a grower should do with stock on hand.
type RecommendationKind string

const (
	RecommendHold       RecommendationKind = "HOLD"
	RecommendSell       RecommendationKind = "SELL"
	RecommendSellAtPeak RecommendationKind = "SELL_AT_PEAK"
)

// ClassificationResult is the trend and sell/hold advice derived from a
// price series. RecommendedMonth and RecommendedPrice are nil when the
// series has no forecast months.
type ClassificationResult struct {
	CurrentPrice     float64            `json:"current_price"`
	PreviousPrice    float64            `json:"previous_price"`
	PctChange        float64            `json:"pct_change"` // one decimal
	Trend            Trend              `json:"trend"`
	Recommendation   RecommendationKind `json:"recommendation"`
	RecommendedMonth *string            `json:"recommended_month"`
	RecommendedPrice *float64           `json:"recommended_price"`
	Reason           string             `json:"reason"`
}

// HasTarget reports whether a best forecast month was found.
func (r ClassificationResult) HasTarget() bool {
	return r.RecommendedMonth != nil && r.RecommendedPrice != nil
}
