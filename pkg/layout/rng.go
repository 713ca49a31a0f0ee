package layout

// Park-Miller minimal standard generator constants.
const (
	lehmerMultiplier = 16807
	lehmerModulus    = 2147483647 // 2^31 - 1
)

// Lehmer is the Park-Miller "minimal standard" linear congruential
// generator. Its output sequence is fixed for a given seed on every
// platform, which keeps generated scenes stable across re-renders.
type Lehmer struct {
	state int64
}

// NewLehmer seeds a generator. Seeds outside [1, 2^31-2] are folded into
// that range so that every seed, including zero, yields a usable stream.
func NewLehmer(seed int64) *Lehmer {
	s := seed % lehmerModulus
	if s <= 0 {
		s += lehmerModulus - 1
	}
	return &Lehmer{state: s}
}

// Next advances the generator and returns the new state in [1, 2^31-2].
func (g *Lehmer) Next() int64 {
	g.state = g.state * lehmerMultiplier % lehmerModulus
	return g.state
}

// Float64 returns the next value scaled into [0, 1).
func (g *Lehmer) Float64() float64 {
	return float64(g.Next()-1) / float64(lehmerModulus-1)
}
