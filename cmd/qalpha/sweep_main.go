package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tsallislabs/qalpha/internal/config"
	"github.com/tsallislabs/qalpha/internal/data"
	applog "github.com/tsallislabs/qalpha/internal/log"
	"github.com/tsallislabs/qalpha/internal/sweep"
	"github.com/tsallislabs/qalpha/internal/telemetry"
)

// runSweep executes the full recovery-rate sensitivity analysis.
func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := sweepConfig(cmd)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	progressFlag, _ := cmd.Flags().GetString("progress")

	bonds, err := data.LoadBonds(input)
	if err != nil {
		return err
	}
	log.Info().Str("input", input).Int("bonds", len(bonds)).Msg("Loaded bond universe")

	var metrics *telemetry.Metrics
	if cfg.Output.MetricsAddr != "" {
		metrics = telemetry.NewMetrics()
		srv := metrics.Serve(cfg.Output.MetricsAddr)
		defer srv.Close()
	}

	rates := sweep.Rates(cfg.Sweep.RecoveryMin, cfg.Sweep.RecoveryMax, cfg.Sweep.RecoveryStep)
	total := len(bonds) * len(rates)
	progress := applog.NewProgressIndicator("sensitivity sweep", total, progressMode(progressFlag))

	result, err := sweep.Run(sweep.Request{
		Bonds:        bonds,
		Rates:        rates,
		KurtosisQ:    cfg.Model.KurtosisQ,
		SkewAlpha:    cfg.Model.SkewAlpha,
		Sigma:        cfg.Model.Sigma,
		HorizonYears: cfg.Model.HorizonYears,
		PathCount:    cfg.Sweep.PathCount,
		Workers:      cfg.Sweep.Workers,
		Seed:         cfg.Sweep.Seed,
		SkipErrors:   cfg.Sweep.SkipErrors,
		Metrics:      metrics,
		OnProgress: func(done, _ int) {
			progress.Update(done)
		},
	})
	if err != nil {
		return err
	}
	progress.Finish()

	if err := data.WriteMatrix(output, result.Matrix, cfg.Output.Precision); err != nil {
		return err
	}

	log.Info().
		Str("run_id", result.RunID).
		Str("output", output).
		Int("bonds", len(bonds)).
		Int("rates", len(rates)).
		Msg("Sensitivity matrix written")
	return nil
}

// sweepConfig resolves the effective configuration: file values when --config
// is given, overridden by any flag the user set explicitly.
func sweepConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("q") {
		cfg.Model.KurtosisQ, _ = flags.GetFloat64("q")
	}
	if flags.Changed("alpha") {
		cfg.Model.SkewAlpha, _ = flags.GetFloat64("alpha")
	}
	if flags.Changed("sigma") {
		cfg.Model.Sigma, _ = flags.GetFloat64("sigma")
	}
	if flags.Changed("horizon") {
		cfg.Model.HorizonYears, _ = flags.GetInt("horizon")
	}
	if flags.Changed("paths") {
		cfg.Sweep.PathCount, _ = flags.GetInt("paths")
	}
	if flags.Changed("seed") {
		cfg.Sweep.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("workers") {
		cfg.Sweep.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("recovery-min") {
		cfg.Sweep.RecoveryMin, _ = flags.GetFloat64("recovery-min")
	}
	if flags.Changed("recovery-max") {
		cfg.Sweep.RecoveryMax, _ = flags.GetFloat64("recovery-max")
	}
	if flags.Changed("recovery-step") {
		cfg.Sweep.RecoveryStep, _ = flags.GetFloat64("recovery-step")
	}
	if flags.Changed("skip-errors") {
		cfg.Sweep.SkipErrors, _ = flags.GetBool("skip-errors")
	}
	if flags.Changed("metrics-addr") {
		cfg.Output.MetricsAddr, _ = flags.GetString("metrics-addr")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid sweep configuration: %w", err)
	}
	return cfg, nil
}

// progressMode resolves the --progress flag, auto-detecting a TTY for the
// in-place bar.
func progressMode(flag string) applog.Mode {
	switch flag {
	case "json":
		return applog.ModeJSON
	case "plain":
		return applog.ModePlain
	default:
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return applog.ModeBar
		}
		return applog.ModePlain
	}
}
