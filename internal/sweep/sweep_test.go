package sweep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsallislabs/qalpha/internal/data"
	"github.com/tsallislabs/qalpha/internal/model"
)

func TestRatesStandardGrid(t *testing.T) {
	rates := Rates(0.10, 0.90, 0.05)

	require.Len(t, rates, 16)
	assert.InDelta(t, 0.10, rates[0], 1e-12)
	assert.InDelta(t, 0.85, rates[len(rates)-1], 1e-12)

	for i := 1; i < len(rates); i++ {
		assert.InDelta(t, 0.05, rates[i]-rates[i-1], 1e-12)
	}
}

func TestRatesEndIsExclusive(t *testing.T) {
	rates := Rates(0.2, 0.4, 0.1)
	require.Len(t, rates, 2)
	assert.InDelta(t, 0.2, rates[0], 1e-12)
	assert.InDelta(t, 0.3, rates[1], 1e-12)
}

func testRequest() Request {
	return Request{
		Bonds: []data.Bond{
			{Price: 80, Yield: 0.10},
			{Price: 95, Yield: 0.03},
		},
		Rates:        []float64{0.30, 0.60},
		KurtosisQ:    1.3,
		SkewAlpha:    2,
		Sigma:        0.55,
		HorizonYears: 1,
		PathCount:    200,
		Seed:         42,
	}
}

func TestRunProducesBondByRateMatrix(t *testing.T) {
	req := testRequest()

	var lastDone, lastTotal int
	req.OnProgress = func(done, total int) {
		lastDone, lastTotal = done, total
	}

	result, err := Run(req)
	require.NoError(t, err)

	require.Len(t, result.Matrix, len(req.Bonds))
	for _, row := range result.Matrix {
		require.Len(t, row, len(req.Rates))
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}

	assert.Equal(t, len(req.Bonds)*len(req.Rates), lastTotal)
	assert.Equal(t, lastTotal, lastDone)
	assert.NotEmpty(t, result.RunID)
	assert.Zero(t, result.ErrorCells)
}

func TestRunMatrixIndependentOfWorkerCount(t *testing.T) {
	serial := testRequest()
	serial.Workers = 1
	parallel := testRequest()
	parallel.Workers = 4

	a, err := Run(serial)
	require.NoError(t, err)
	b, err := Run(parallel)
	require.NoError(t, err)

	assert.Equal(t, a.Matrix, b.Matrix)
}

func TestRunFailsFastOnInvalidHyperparameters(t *testing.T) {
	req := testRequest()
	req.KurtosisQ = 1

	_, err := Run(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPrecondition)
}

func TestRunSkipErrorsRecordsBadBondAsNaN(t *testing.T) {
	req := testRequest()
	req.Bonds = append(req.Bonds, data.Bond{Price: 0, Yield: 0.05})
	req.SkipErrors = true

	result, err := Run(req)
	require.NoError(t, err)

	require.Equal(t, len(req.Rates), result.ErrorCells)
	for _, p := range result.Matrix[2] {
		assert.True(t, math.IsNaN(p))
	}
	for _, p := range result.Matrix[0] {
		assert.False(t, math.IsNaN(p))
	}
}

func TestRunWithoutSkipErrorsFailsOnBadBond(t *testing.T) {
	req := testRequest()
	req.Bonds = []data.Bond{{Price: -5, Yield: 0.05}}

	_, err := Run(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPrecondition)
}

func TestRunRejectsEmptyInputs(t *testing.T) {
	req := testRequest()
	req.Bonds = nil
	_, err := Run(req)
	require.Error(t, err)

	req = testRequest()
	req.Rates = nil
	_, err = Run(req)
	require.Error(t, err)
}

func TestCellSeedIsStablePerCell(t *testing.T) {
	assert.Equal(t, cellSeed(42, 3, 7), cellSeed(42, 3, 7))
	assert.NotEqual(t, cellSeed(42, 3, 7), cellSeed(42, 7, 3))
	assert.NotEqual(t, cellSeed(42, 3, 7), cellSeed(43, 3, 7))
}
