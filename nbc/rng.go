package nbc

// lcg is the same linear-congruential generator sintax uses for
// bootstrap resampling (spec.md §4.F/§4.G): multiplier 1,664,525,
// increment 1,013,904,223, modulus 2^32.
type lcg struct {
	state uint32
}

func newLCG(seed uint32) *lcg {
	return &lcg{state: seed}
}

func (g *lcg) next() uint32 {
	g.state = g.state*1664525 + 1013904223
	return g.state
}
