package tui

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/drillsim/pkg/domain"
	"golang.org/x/term"
)

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// MarkdownTable renders every row of table as a markdown table with values
// rounded to precision decimals. Pass table.Head(n) to preview.
func MarkdownTable(table *domain.Table, precision int) string {
	var b strings.Builder
	columns := table.Columns()

	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	b.WriteString("|")
	for range columns {
		b.WriteString(" ---: |")
	}
	b.WriteString("\n")

	for _, row := range table.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strconv.FormatFloat(v, 'f', precision, 64)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// Summary renders one line per channel with its observed min, mean and max.
func Summary(table *domain.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows, depth %s\n\n", table.Len(), depthSpan(table.Depth()))
	b.WriteString("| Channel | Min | Mean | Max | Bounds |\n| --- | ---: | ---: | ---: | --- |\n")
	for _, c := range table.Channels() {
		series, _ := table.Series(c.Key)
		lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
		for _, v := range series {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			sum += v
		}
		if len(series) == 0 {
			fmt.Fprintf(&b, "| %s | - | - | - | %g-%g |\n", c.Column(), c.Min, c.Max)
			continue
		}
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %g-%g |\n",
			c.Column(), lo, sum/float64(len(series)), hi, c.Min, c.Max)
	}
	return b.String()
}

func depthSpan(depth domain.DepthAxis) string {
	if len(depth) == 0 {
		return "empty"
	}
	return fmt.Sprintf("%g..%g m", depth[0], depth[len(depth)-1])
}

// WellLog writes a well-log style sketch of table to w: one row per depth,
// increasing downward, and one track per channel. Each track is width cells
// wide and marks the value's position between the channel's Min (left) and
// Max (right).
func WellLog(w io.Writer, table *domain.Table, width int) error {
	if width < 2 {
		width = 2
	}
	channels := table.Channels()

	header := make([]string, 0, len(channels)+1)
	header = append(header, fmt.Sprintf("%8s", "Depth"))
	for _, c := range channels {
		header = append(header, fit(c.Name, width))
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, " |")); err != nil {
		return err
	}

	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		cells := make([]string, 0, len(row))
		cells = append(cells, fmt.Sprintf("%8.1f", row[0]))
		for j, c := range channels {
			cells = append(cells, Track(c, row[j+1], width))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " |")); err != nil {
			return err
		}
	}
	return nil
}

// Track renders v as a marker on a track of width cells spanning spec's bounds.
func Track(spec domain.ChannelSpec, v float64, width int) string {
	cells := []rune(strings.Repeat("·", width))
	if spec.Max > spec.Min {
		pos := int(math.Round(float64(width-1) * (spec.Clamp(v) - spec.Min) / (spec.Max - spec.Min)))
		cells[pos] = '●'
	}
	return string(cells)
}

func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
