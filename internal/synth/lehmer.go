// Package synth generates the deterministic price series and market
// comparison for a commodity.
//
// Every output is a closed-form function of the commodity's base price and
// the month index: the same commodity always yields the same numbers, on
// every platform. Randomness comes from a Park–Miller (Lehmer) generator
// whose state is an explicit value, so independent streams never share
// hidden state.
package synth

const (
	// Modulus is the Mersenne prime 2^31 - 1.
	Modulus int64 = 2147483647
	// Multiplier is the Park–Miller minimal-standard multiplier.
	Multiplier int64 = 16807
)

// Lehmer is a multiplicative linear congruential generator over Modulus.
// The zero value is not usable; construct with NewLehmer.
type Lehmer struct {
	state int64
}

// NewLehmer returns a generator seeded with seed. The seed is the state
// before the first update, so the first value comes from Step(seed).
func NewLehmer(seed int64) *Lehmer {
	return &Lehmer{state: normalizeSeed(seed)}
}

// Next advances the generator and returns a value in [0, 1).
func (l *Lehmer) Next() float64 {
	v, next := Step(l.state)
	l.state = next
	return v
}

// State returns the current internal state.
func (l *Lehmer) State() int64 { return l.state }

// Take returns the next n values.
func (l *Lehmer) Take(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = l.Next()
	}
	return out
}

// Step performs one generator update. It returns the emitted value and the
// next state. state must already be in [1, Modulus-1].
func Step(state int64) (float64, int64) {
	next := state * Multiplier % Modulus
	return float64(next-1) / float64(Modulus-1), next
}

// normalizeSeed maps any integer onto a valid state in [1, Modulus-1].
// Zero is a fixed point of the update, so a zero residue becomes 1.
func normalizeSeed(seed int64) int64 {
	s := seed % Modulus
	if s < 0 {
		s += Modulus
	}
	if s == 0 {
		s = 1
	}
	return s
}
