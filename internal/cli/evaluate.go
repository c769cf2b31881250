package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aetheris/internal/advisory"
	"aetheris/internal/config"
	"aetheris/internal/models"
	"aetheris/internal/service"

	"github.com/spf13/cobra"
)

var evaluateFlags struct {
	load     float64
	outdoor  float64
	cloud    float64
	inject   float64
	window   float64
	advisory bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run one offline evaluation from the given inputs and print it as JSON",
	Long: "Runs a single adaptation cycle without sensors, storage or actuators. " +
		"Omit --outdoor to evaluate with no weather reading. With --advisory the configured " +
		"provider is asked for guidance on CRITICAL states.",
	Example: "  aetheris evaluate --load 0.9 --outdoor 95 --cloud 0.1\n" +
		"  aetheris evaluate --load 0.2 --inject 400 --window 30",
	RunE: runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.Float64Var(&evaluateFlags.load, "load", 0, "compute load fraction 0..1")
	f.Float64Var(&evaluateFlags.outdoor, "outdoor", 0, "outdoor temperature in °F")
	f.Float64Var(&evaluateFlags.cloud, "cloud", 0, "cloud cover fraction 0..1")
	f.Float64Var(&evaluateFlags.inject, "inject", 0, "demo heat to inject before evaluating, in watts")
	f.Float64Var(&evaluateFlags.window, "window", 60, "drain window for --inject, in seconds")
	f.BoolVar(&evaluateFlags.advisory, "advisory", false, "ask the configured advisory provider on CRITICAL")
}

// staticInputs is a SignalSource that always returns the same inputs.
type staticInputs models.ThermalInputs

func (s staticInputs) Inputs(context.Context) (models.ThermalInputs, error) {
	return models.ThermalInputs(s), nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	in := models.ThermalInputs{
		LoadFraction:  evaluateFlags.load,
		CloudFraction: evaluateFlags.cloud,
	}
	if cmd.Flags().Changed("outdoor") {
		t := evaluateFlags.outdoor
		in.OutdoorTempF = &t
	}

	var advisor advisory.Client = advisory.Disabled{}
	timeout := time.Duration(0)
	if evaluateFlags.advisory {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if advisor, err = advisory.NewClient(cfg.Advisory); err != nil {
			return fmt.Errorf("advisory: %w", err)
		}
		timeout = cfg.Advisory.Timeout
	}

	adaptation := service.NewAdaptationService(service.AdaptationDeps{
		Signals:         staticInputs(in),
		Advisor:         advisor,
		AdvisoryTimeout: timeout,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if evaluateFlags.inject > 0 {
		adaptation.InjectHeat(ctx, service.InjectParams{
			Watts:         evaluateFlags.inject,
			WindowSeconds: evaluateFlags.window,
		})
	}
	res := adaptation.Evaluate(ctx)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
