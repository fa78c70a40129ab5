package sim

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/tsallislabs/qalpha/internal/model"
)

// NormalSource yields independent standard-normal draws. *rand.Rand from
// golang.org/x/exp/rand satisfies it; tests substitute deterministic stubs.
type NormalSource interface {
	NormFloat64() float64
}

// NewRand returns a seeded normal-draw source. The same seed reproduces a run
// bit-for-bit.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Simulator advances a Population one trading day at a time under the q-alpha
// dynamics: yield drift plus CEV-elasticity volatility modulated by the
// closed-form q-Gaussian kernel, with an absorbing default floor.
//
// Day k+1 depends on all path state after day k, so days are strictly
// sequential; within a day the per-path updates are independent.
type Simulator struct {
	params     model.SimulationParameters
	threshold  float64
	dt         float64
	sqrtDt     float64
	priceScale float64 // initial_price^(1-alpha), constant across the run

	kernel []float64 // per-day scratch, reused across steps
}

// NewSimulator prepares a simulator for one parameter set. Parameters are
// assumed validated by the caller.
func NewSimulator(params model.SimulationParameters) *Simulator {
	dt := params.Dt()
	return &Simulator{
		params:     params,
		threshold:  params.DefaultThreshold(),
		dt:         dt,
		sqrtDt:     math.Sqrt(dt),
		priceScale: math.Pow(params.InitialPrice, 1-params.SkewAlpha),
	}
}

// Step advances pop through one trading day, drawing one standard normal per
// live path from src, and returns the number of paths that defaulted during
// the day. day is zero-based; the kernel sees elapsed time (day+1)*dt.
func (s *Simulator) Step(pop *Population, day int, src NormalSource) int {
	n := pop.Size()
	if n == 0 {
		return 0
	}

	// The elapsed-time grid is t_k = k*dt starting at dt. Multiplying instead
	// of accumulating keeps the grid free of floating-point drift, so the
	// kernel sees the same time regardless of how many days preceded.
	elapsed := float64(day+1) * s.dt

	if cap(s.kernel) < n {
		s.kernel = make([]float64, n)
	}
	kernel := s.kernel[:n]
	model.KernelInto(kernel, pop.Noise(), elapsed, s.params.KurtosisQ)

	q := s.params.KurtosisQ
	sigmaFactor := s.params.Sigma * math.Pow(elapsed, (1-q)/(2*(3-q)))

	prices := pop.Prices()
	noise := pop.Noise()
	for i := 0; i < n; i++ {
		shock := src.NormFloat64() * s.sqrtDt
		kernelScale := math.Pow(kernel[i], (1-q)/2)

		prices[i] += s.params.Yield * s.dt * prices[i]
		vol := sigmaFactor * s.priceScale * math.Pow(prices[i], s.params.SkewAlpha)
		prices[i] += vol * kernelScale * shock
		noise[i] += kernelScale * shock
	}

	// Volatility is evaluated before the floor check, so a price driven
	// negative on its final day can momentarily raise a negative base to a
	// non-integer power. With a positive floor such a path is removed the
	// same day the breach is computed.
	return pop.RemoveBelow(s.threshold)
}
