package synth

// Stream identifies a use-site that draws its own random sequence. The
// seed for a commodity is int64(base)*Mul + Add.
type Stream struct {
	Name string
	Mul  int64
	Add  int64
}

var (
	// StreamPriceNoise perturbs the monthly price (±4% of base).
	StreamPriceNoise = Stream{Name: "price_noise", Mul: 7, Add: 13}
	// StreamAverage drives the average benchmark (±3% of base).
	StreamAverage = Stream{Name: "average", Mul: 5, Add: 11}
	// StreamMarket drives the per-market comparison.
	StreamMarket = Stream{Name: "market", Mul: 3, Add: 7}
)

// Seed derives the stream seed for a base price. Fractional base prices are
// truncated toward zero.
func (s Stream) Seed(base float64) int64 {
	return int64(base)*s.Mul + s.Add
}

// For returns a fresh generator for the given base price.
func (s Stream) For(base float64) *Lehmer {
	return NewLehmer(s.Seed(base))
}
