package models

// CalendarMonths are the month labels of a January-start year.
var CalendarMonths = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Commodity is an agricultural product tracked by the dashboard.
type Commodity struct {
	ID        string  `json:"id"              mapstructure:"id"         yaml:"id"`
	Label     string  `json:"label"           mapstructure:"label"      yaml:"label"`
	Emoji     string  `json:"emoji,omitempty" mapstructure:"emoji"      yaml:"emoji,omitempty"`
	BasePrice float64 `json:"base_price"      mapstructure:"base_price" yaml:"base_price"` // ₹ per Unit
	Unit      string  `json:"unit"            mapstructure:"unit"       yaml:"unit"`       // e.g., "quintal", "kg"
}

// Market is a regulated produce market (mandi).
type Market struct {
	Name string `json:"name" mapstructure:"name" yaml:"name"`
}

// MonthPoint is one calendar month of a synthesized price series.
//
// Actual is set for months at or before the current month, Predicted for
// months at or after it. The current month carries both with equal values.
type MonthPoint struct {
	Month      string   `json:"month"`
	Actual     *float64 `json:"actual"`
	Predicted  *float64 `json:"predicted"`
	Average    float64  `json:"avg"`
	IsForecast bool     `json:"is_forecast"`
}

// HasActual reports whether the month has an observed price.
func (p MonthPoint) HasActual() bool { return p.Actual != nil }

// HasPredicted reports whether the month has a forecast price.
func (p MonthPoint) HasPredicted() bool { return p.Predicted != nil }

// MarketQuote is a single market's price for a commodity.
type MarketQuote struct {
	Market string  `json:"market"`
	Price  float64 `json:"price"`
}

// MarketSummary highlights the spread across a set of market quotes.
type MarketSummary struct {
	Best      MarketQuote  `json:"best"`
	Lowest    MarketQuote  `json:"lowest"`
	Selected  *MarketQuote `json:"selected,omitempty"`
	SpreadPct float64      `json:"spread_pct"` // selected vs best, ≤ 0
	Tracked   int          `json:"tracked"`
}
