package model

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks an invalid model input. Runs failing validation must
// abort before any simulation work starts; there is no retry path.
var ErrPrecondition = errors.New("precondition violation")

// SimulationParameters describes one bond under the q-alpha default model.
//
// RecoveryFraction*InitialPrice is the absolute default floor. The floor is
// fixed for the whole simulation and does not track the evolving price.
type SimulationParameters struct {
	InitialPrice     float64 // current bond price, cents on the dollar
	Yield            float64 // decimal annual yield
	RecoveryFraction float64 // expected recovery on default, in [0, 1]
	KurtosisQ        float64 // Tsallis kurtosis parameter, must be > 1 and != 3
	SkewAlpha        float64 // CEV elasticity of volatility to price level
	Sigma            float64 // annualized volatility, must be > 0
	HorizonYears     int     // whole-year simulation horizon
}

// DefaultThreshold returns the absolute price floor below which a path is
// considered defaulted.
func (p SimulationParameters) DefaultThreshold() float64 {
	return p.RecoveryFraction * p.InitialPrice
}

// Days returns the number of simulated trading days over the horizon.
func (p SimulationParameters) Days() int {
	return 365 * p.HorizonYears
}

// Dt returns the timestep in years.
func (p SimulationParameters) Dt() float64 {
	return float64(p.HorizonYears) / float64(p.Days())
}

// Validate checks the precondition taxonomy. Every violation wraps
// ErrPrecondition so callers can test with errors.Is.
func (p SimulationParameters) Validate() error {
	switch {
	case p.KurtosisQ <= 1:
		return fmt.Errorf("%w: kurtosis q must be > 1, got %g", ErrPrecondition, p.KurtosisQ)
	case p.KurtosisQ == 3:
		return fmt.Errorf("%w: kurtosis q = 3 divides by zero in the kernel", ErrPrecondition)
	case p.Sigma <= 0:
		return fmt.Errorf("%w: sigma must be positive, got %g", ErrPrecondition, p.Sigma)
	case p.InitialPrice <= 0:
		return fmt.Errorf("%w: initial price must be positive, got %g", ErrPrecondition, p.InitialPrice)
	case p.HorizonYears <= 0:
		return fmt.Errorf("%w: horizon must be at least 1 year, got %d", ErrPrecondition, p.HorizonYears)
	case p.RecoveryFraction < 0 || p.RecoveryFraction > 1:
		return fmt.Errorf("%w: recovery fraction must lie in [0, 1], got %g", ErrPrecondition, p.RecoveryFraction)
	}
	return nil
}

// SimulationResult is the reduced outcome of one Monte Carlo run. Immutable
// once returned.
type SimulationResult struct {
	InitialPaths   int
	DefaultedPaths int
}

// Probability returns the estimated probability of default in [0, 1].
func (r SimulationResult) Probability() float64 {
	return float64(r.DefaultedPaths) / float64(r.InitialPaths)
}
