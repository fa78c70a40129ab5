package sim

// Population holds the surviving simulated price paths and their accumulated
// noise state. prices[i] and noise[i] always refer to the same path; removal
// compacts both slices in one pass, so path identity does not survive a
// removal across a time step.
type Population struct {
	prices []float64
	noise  []float64
}

// NewPopulation creates n paths, all starting at price with zero accumulated
// noise.
func NewPopulation(n int, price float64) *Population {
	p := &Population{
		prices: make([]float64, n),
		noise:  make([]float64, n),
	}
	for i := range p.prices {
		p.prices[i] = price
	}
	return p
}

// Size returns the number of live paths.
func (p *Population) Size() int {
	return len(p.prices)
}

// Prices returns the live price slice, index-aligned with Noise. Callers
// mutate it in place during a day step.
func (p *Population) Prices() []float64 {
	return p.prices
}

// Noise returns the live accumulated-noise slice, index-aligned with Prices.
func (p *Population) Noise() []float64 {
	return p.noise
}

// RemoveBelow drops every path whose price is strictly under floor, compacting
// the price and noise slices together, and returns the number removed. The
// two slices are never observable in a partially compacted state.
//
// A NaN price fails the comparison and survives, matching the reference
// semantics for out-of-domain volatility values.
func (p *Population) RemoveBelow(floor float64) int {
	kept := 0
	for i, px := range p.prices {
		if px < floor {
			continue
		}
		p.prices[kept] = px
		p.noise[kept] = p.noise[i]
		kept++
	}
	removed := len(p.prices) - kept
	p.prices = p.prices[:kept]
	p.noise = p.noise[:kept]
	return removed
}
