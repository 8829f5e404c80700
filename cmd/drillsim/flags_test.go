package main

import (
	"testing"

	"github.com/aretw0/drillsim/internal/config"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addRequestFlags(cmd)
	addOutputFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	cfg := config.Defaults()
	cfg.EndDepth = 800
	cfg.Output.Prefix = "from_file"

	cmd := newFlagCmd(t, "--start", "600", "--seed", "7", "--rop-step", "2", "--format", "XLSX")
	require.NoError(t, applyFlags(cmd, &cfg))

	assert.Equal(t, 600.0, cfg.StartDepth)
	assert.Equal(t, 800.0, cfg.EndDepth, "unset flags keep the configured value")
	assert.Equal(t, "from_file", cfg.Output.Prefix)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(7), *cfg.Seed)
	assert.Equal(t, map[string]float64{domain.KeyROP: 2}, cfg.MaxSteps)
	assert.Equal(t, domain.FormatXLSX, cfg.Output.Format)
}

func TestApplyFlags_UnknownFormat(t *testing.T) {
	cfg := config.Defaults()
	cmd := newFlagCmd(t, "--format", "parquet")
	assert.ErrorIs(t, applyFlags(cmd, &cfg), domain.ErrUnknownFormat)
}

func TestApplyFlags_RequestOnly(t *testing.T) {
	cfg := config.Defaults()
	cmd := &cobra.Command{Use: "test"}
	addRequestFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--step", "10"}))

	require.NoError(t, applyFlags(cmd, &cfg))
	assert.Equal(t, 10.0, cfg.Step)
	assert.Equal(t, config.Defaults().Output, cfg.Output)
}
