package data

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bonds.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadBondsScalesQuotedYield(t *testing.T) {
	path := writeTempCSV(t, "price,yield\n80,10\n95.5, 3.25\n")

	bonds, err := LoadBonds(path)
	require.NoError(t, err)
	require.Len(t, bonds, 2)

	assert.Equal(t, 80.0, bonds[0].Price)
	assert.InEpsilon(t, 0.10, bonds[0].Yield, 1e-12)
	assert.Equal(t, 95.5, bonds[1].Price)
	assert.InEpsilon(t, 0.0325, bonds[1].Yield, 1e-12)
}

func TestLoadBondsSkipsHeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "price,yield\n")

	_, err := LoadBonds(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestLoadBondsReportsBadRowWithLineNumber(t *testing.T) {
	path := writeTempCSV(t, "price,yield\n80,10\nnot-a-number,5\n")

	_, err := LoadBonds(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadBondsMissingFile(t *testing.T) {
	_, err := LoadBonds(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestWriteMatrixFixedPointFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	matrix := [][]float64{
		{0.12345, 1},
		{0, 0.6789},
	}

	require.NoError(t, WriteMatrix(path, matrix, 4))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.1235,1.0000\n0.0000,0.6789\n", string(raw))
}

func TestWriteMatrixPreservesNaNCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteMatrix(path, [][]float64{{math.NaN()}}, 4))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NaN\n", string(raw))
}
