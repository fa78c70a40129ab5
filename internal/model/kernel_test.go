package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelIsPure(t *testing.T) {
	a := Kernel(0.7, 1.5, 1.3)
	b := Kernel(0.7, 1.5, 1.3)

	// Bit-identical, not merely close.
	require.Equal(t, math.Float64bits(a), math.Float64bits(b))
}

func TestKernelSymmetricInNoise(t *testing.T) {
	for _, omega := range []float64{0.1, 0.5, 1.0, 2.5} {
		assert.Equal(t, Kernel(omega, 1.0, 1.3), Kernel(-omega, 1.0, 1.3))
	}
}

func TestKernelDecreasesAwayFromCenter(t *testing.T) {
	prev := Kernel(0, 1.0, 1.3)
	require.Positive(t, prev)

	for _, omega := range []float64{0.25, 0.5, 1.0, 2.0, 4.0} {
		v := Kernel(omega, 1.0, 1.3)
		assert.Positive(t, v)
		assert.Less(t, v, prev, "kernel must decay with |noise|, omega=%g", omega)
		prev = v
	}
}

// As q approaches 1 the Tsallis density recovers the Gaussian with variance
// equal to the elapsed time.
func TestKernelGaussianLimit(t *testing.T) {
	const q = 1.01

	for _, elapsed := range []float64{0.5, 1.0, 2.0} {
		for _, omega := range []float64{0, 0.5, 1.0, 2.0} {
			want := math.Exp(-omega*omega/(2*elapsed)) / math.Sqrt(2*math.Pi*elapsed)
			got := Kernel(omega, elapsed, q)
			assert.InDelta(t, want, got, 0.01, "t=%g omega=%g", elapsed, omega)
		}
	}
}

func TestKernelIntoMatchesScalar(t *testing.T) {
	omega := []float64{-2, -0.5, 0, 0.3, 1.7, 4}
	dst := make([]float64, len(omega))

	KernelInto(dst, omega, 2.0, 1.3)

	for i, w := range omega {
		require.Equal(t, Kernel(w, 2.0, 1.3), dst[i], "index %d", i)
	}
}
