package sim

import (
	"fmt"

	"github.com/tsallislabs/qalpha/internal/model"
)

// DefaultPathCount is the reference Monte Carlo population size.
const DefaultPathCount = 1000

// Estimate runs the full q-alpha Monte Carlo default estimate: pathCount
// paths starting at the initial price, advanced day by day over the horizon,
// with defaulted paths absorbed at the recovery floor.
//
// Parameters are validated up front; a violation aborts before any simulation
// work. The run is a pure function of (params, pathCount, src): a source with
// the same seed reproduces the result bit-for-bit. Once every path has
// defaulted the remaining days are skipped, the result being final.
func Estimate(params model.SimulationParameters, pathCount int, src NormalSource) (model.SimulationResult, error) {
	if err := params.Validate(); err != nil {
		return model.SimulationResult{}, err
	}
	if pathCount <= 0 {
		return model.SimulationResult{}, fmt.Errorf("%w: path count must be positive, got %d", model.ErrPrecondition, pathCount)
	}

	pop := NewPopulation(pathCount, params.InitialPrice)
	sim := NewSimulator(params)

	defaulted := 0
	days := params.Days()
	for day := 0; day < days; day++ {
		defaulted += sim.Step(pop, day, src)
		if pop.Size() == 0 {
			break
		}
	}

	return model.SimulationResult{
		InitialPaths:   pathCount,
		DefaultedPaths: defaulted,
	}, nil
}
