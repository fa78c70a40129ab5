package model

import "math"

// Kernel evaluates the closed-form q-Gaussian density value that drives the
// q-alpha price update, at accumulated noise omega and elapsed time t.
//
// The function is pure: identical inputs always produce bit-identical output,
// so it can be evaluated independently across paths. Callers must guarantee
// q > 1 and q != 3 (see SimulationParameters.Validate); both values divide by
// zero inside the closed form.
func Kernel(omega, elapsed, q float64) float64 {
	beta, zeta := kernelCoefficients(elapsed, q)
	return (1 / zeta) * math.Pow(1+omega*omega*beta*(q-1), -1/(q-1))
}

// KernelInto evaluates Kernel for every accumulated-noise entry, writing the
// results into dst. dst and omega must have equal length. The beta and zeta
// coefficients depend only on (elapsed, q), so they are hoisted out of the
// per-path loop.
func KernelInto(dst, omega []float64, elapsed, q float64) {
	beta, zeta := kernelCoefficients(elapsed, q)
	for i, w := range omega {
		dst[i] = (1 / zeta) * math.Pow(1+w*w*beta*(q-1), -1/(q-1))
	}
}

// kernelCoefficients computes the time-dependent normalization of the Tsallis
// density: beta sets the width of the distribution, zeta its height.
func kernelCoefficients(elapsed, q float64) (beta, zeta float64) {
	gammaRatio := math.Gamma(1/(q-1)-0.5) / math.Gamma(1/(q-1))
	normalizingQ := (math.Pi / (q - 1)) * gammaRatio * gammaRatio

	beta = math.Pow(normalizingQ, (1-q)/(3-q)) * math.Pow(elapsed*(2-q)*(3-q), -2/(3-q))
	zeta = math.Pow(elapsed*normalizingQ*(2-q)*(3-q), 1/(3-q))
	return beta, zeta
}
