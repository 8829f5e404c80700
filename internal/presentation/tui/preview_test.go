package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/drillsim/internal/presentation/tui"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *domain.Table {
	t.Helper()
	table, err := domain.NewTable(
		domain.DepthAxis{500, 505, 510},
		domain.DefaultChannels(),
		[]domain.ChannelSeries{{2, 11, 20}, {60, 90, 120}, {200, 300, 400}, {5, 12.5, 20}},
	)
	require.NoError(t, err)
	return table
}

func TestMarkdownTable(t *testing.T) {
	md := tui.MarkdownTable(sampleTable(t).Head(2), 2)
	lines := strings.Split(strings.TrimSpace(md), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "| Depth (m) | ROP (m/h) | RPM | Flow Rate (L/min) | Weight on Bit (tons) |", lines[0])
	assert.Equal(t, "| 500.00 | 2.00 | 60.00 | 200.00 | 5.00 |", lines[2])
	assert.Equal(t, "| 505.00 | 11.00 | 90.00 | 300.00 | 12.50 |", lines[3])
}

func TestTrack(t *testing.T) {
	rop := domain.DefaultChannels()[0]

	assert.Equal(t, "●····", tui.Track(rop, rop.Min, 5))
	assert.Equal(t, "··●··", tui.Track(rop, 11, 5))
	assert.Equal(t, "····●", tui.Track(rop, rop.Max, 5))
	assert.Equal(t, "····●", tui.Track(rop, 99, 5), "out of range values are pinned")
	assert.Equal(t, "·····", tui.Track(domain.ChannelSpec{Name: "Torque"}, 1, 5), "no bounds, no marker")
}

func TestWellLog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tui.WellLog(&buf, sampleTable(t), 5))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Depth")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "500.0"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[3]), "510.0"), "depth increases downward")
	assert.Equal(t, 4, strings.Count(lines[2], "··●··"), "every channel sits mid-track at 505 m")
}

func TestSummary(t *testing.T) {
	out := tui.Summary(sampleTable(t))
	assert.Contains(t, out, "3 rows, depth 500..510 m")
	assert.Contains(t, out, "| ROP (m/h) | 2.00 | 11.00 | 20.00 | 2-20 |")
}

func TestRenderer(t *testing.T) {
	render, err := tui.NewRenderer(false)
	require.NoError(t, err)

	out, err := render(tui.MarkdownTable(sampleTable(t).Head(1), 1))
	require.NoError(t, err)
	assert.Contains(t, out, "Depth (m)")
	assert.Contains(t, out, "500.0")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.NotEmpty(t, strings.TrimSpace(buf.String()))
}
