package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tsallislabs/qalpha/internal/model"
	"github.com/tsallislabs/qalpha/internal/sim"
)

// runEstimate prices a single (bond, recovery) pair and prints the default
// probability to stdout.
func runEstimate(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	price, _ := flags.GetFloat64("price")
	yield, _ := flags.GetFloat64("yield")
	recovery, _ := flags.GetFloat64("recovery")
	q, _ := flags.GetFloat64("q")
	alpha, _ := flags.GetFloat64("alpha")
	sigma, _ := flags.GetFloat64("sigma")
	horizon, _ := flags.GetInt("horizon")
	paths, _ := flags.GetInt("paths")
	seed, _ := flags.GetUint64("seed")

	params := model.SimulationParameters{
		InitialPrice:     price,
		Yield:            yield,
		RecoveryFraction: recovery,
		KurtosisQ:        q,
		SkewAlpha:        alpha,
		Sigma:            sigma,
		HorizonYears:     horizon,
	}

	result, err := sim.Estimate(params, paths, sim.NewRand(seed))
	if err != nil {
		return err
	}

	log.Info().
		Float64("price", price).
		Float64("recovery", recovery).
		Int("paths", result.InitialPaths).
		Int("defaulted", result.DefaultedPaths).
		Msg("Estimate complete")

	fmt.Printf("%.4f\n", result.Probability())
	return nil
}
