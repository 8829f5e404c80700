package main

import (
	"github.com/aretw0/drillsim/internal/config"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/spf13/cobra"
)

var stepFlags = map[string]string{
	"rop-step":  domain.KeyROP,
	"rpm-step":  domain.KeyRPM,
	"flow-step": domain.KeyFlowRate,
	"wob-step":  domain.KeyWeightOnBit,
}

func addRequestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("start", 500, "Start depth in meters")
	f.Float64("end", 1000, "End depth in meters")
	f.Float64("step", 5, "Depth step in meters")
	f.Int64("seed", 0, "Random seed (default: drawn from the clock and reported)")
	f.Float64("rop-step", 0.5, "Max ROP change per depth step")
	f.Float64("rpm-step", 5, "Max RPM change per depth step")
	f.Float64("flow-step", 10, "Max Flow Rate change per depth step")
	f.Float64("wob-step", 1, "Max Weight on Bit change per depth step")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("dir", "d", "data", "Output directory")
	f.StringP("prefix", "p", "test_data", "File name prefix")
	f.StringP("format", "f", "csv", "Output format (csv, xlsx)")
}

// applyFlags overlays the flags the user actually set on cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	floats := map[string]*float64{
		"start": &cfg.StartDepth,
		"end":   &cfg.EndDepth,
		"step":  &cfg.Step,
	}
	for name, dst := range floats {
		if f.Lookup(name) == nil || !f.Changed(name) {
			continue
		}
		v, err := f.GetFloat64(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if f.Lookup("seed") != nil && f.Changed("seed") {
		seed, err := f.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = &seed
	}

	for name, key := range stepFlags {
		if f.Lookup(name) == nil || !f.Changed(name) {
			continue
		}
		v, err := f.GetFloat64(name)
		if err != nil {
			return err
		}
		if cfg.MaxSteps == nil {
			cfg.MaxSteps = make(map[string]float64)
		}
		cfg.MaxSteps[key] = v
	}

	strs := map[string]*string{
		"dir":    &cfg.Output.Directory,
		"prefix": &cfg.Output.Prefix,
	}
	for name, dst := range strs {
		if f.Lookup(name) == nil || !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if f.Lookup("format") != nil && f.Changed("format") {
		v, _ := f.GetString("format")
		format, err := domain.ParseFormat(v)
		if err != nil {
			return err
		}
		cfg.Output.Format = format
	}
	return nil
}
