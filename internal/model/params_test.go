package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() SimulationParameters {
	return SimulationParameters{
		InitialPrice:     80,
		Yield:            0.10,
		RecoveryFraction: 0.65,
		KurtosisQ:        1.3,
		SkewAlpha:        2,
		Sigma:            0.55,
		HorizonYears:     3,
	}
}

func TestValidateAcceptsReferenceParameters(t *testing.T) {
	require.NoError(t, validParams().Validate())
}

func TestValidateRejectsPreconditionViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimulationParameters)
	}{
		{"q at gaussian limit", func(p *SimulationParameters) { p.KurtosisQ = 1 }},
		{"q below one", func(p *SimulationParameters) { p.KurtosisQ = 0.8 }},
		{"q at kernel pole", func(p *SimulationParameters) { p.KurtosisQ = 3 }},
		{"zero sigma", func(p *SimulationParameters) { p.Sigma = 0 }},
		{"negative sigma", func(p *SimulationParameters) { p.Sigma = -0.1 }},
		{"zero price", func(p *SimulationParameters) { p.InitialPrice = 0 }},
		{"zero horizon", func(p *SimulationParameters) { p.HorizonYears = 0 }},
		{"negative recovery", func(p *SimulationParameters) { p.RecoveryFraction = -0.05 }},
		{"recovery above one", func(p *SimulationParameters) { p.RecoveryFraction = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPrecondition)
		})
	}
}

func TestTimeGridDerivation(t *testing.T) {
	p := validParams()

	assert.Equal(t, 1095, p.Days())
	assert.InEpsilon(t, 1.0/365.0, p.Dt(), 1e-12)
	assert.InEpsilon(t, 52.0, p.DefaultThreshold(), 1e-12)
}

func TestResultProbability(t *testing.T) {
	r := SimulationResult{InitialPaths: 1000, DefaultedPaths: 250}
	assert.Equal(t, 0.25, r.Probability())

	none := SimulationResult{InitialPaths: 1000}
	assert.Zero(t, none.Probability())
}
