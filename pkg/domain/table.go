package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// DepthAxis is the strictly increasing depth index of a table, in meters.
type DepthAxis []float64

// ChannelSeries holds one value per depth point for a single channel.
type ChannelSeries []float64

// Table is the assembled, immutable result of one generation request:
// a depth column followed by one column per channel, all of equal length.
// Accessors return copies so a Table can be shared between goroutines.
type Table struct {
	depth    DepthAxis
	channels []ChannelSpec
	series   []ChannelSeries
	seed     int64
}

// NewTable assembles a table from a depth axis and one series per channel.
// Every series must be as long as the axis and channel names must be unique;
// violations return ErrColumnLength.
func NewTable(depth DepthAxis, channels []ChannelSpec, series []ChannelSeries) (*Table, error) {
	if len(channels) != len(series) {
		return nil, fmt.Errorf("%w: %d channels but %d series", ErrColumnLength, len(channels), len(series))
	}
	seen := make(map[string]bool, len(channels)+1)
	seen[DepthColumn] = true
	for i, c := range channels {
		if seen[c.Column()] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrColumnLength, c.Column())
		}
		seen[c.Column()] = true
		if len(series[i]) != len(depth) {
			return nil, fmt.Errorf("%w: column %q has %d values, depth axis has %d", ErrColumnLength, c.Column(), len(series[i]), len(depth))
		}
	}

	t := &Table{
		depth:    slices.Clone(depth),
		channels: slices.Clone(channels),
		series:   make([]ChannelSeries, len(series)),
	}
	for i, s := range series {
		t.series[i] = slices.Clone(s)
	}
	return t, nil
}

// WithSeed returns a copy of t that records the seed it was generated from.
// The column data is shared; it is never mutated.
func (t *Table) WithSeed(seed int64) *Table {
	cp := *t
	cp.seed = seed
	return &cp
}

// Seed returns the random seed the table was generated from (0 if unknown).
func (t *Table) Seed() int64 {
	return t.seed
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.depth)
}

// Columns returns the header row in export order, depth first.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.channels)+1)
	cols = append(cols, DepthColumn)
	for _, c := range t.channels {
		cols = append(cols, c.Column())
	}
	return cols
}

// Channels returns the channel specs in export order.
func (t *Table) Channels() []ChannelSpec {
	return slices.Clone(t.channels)
}

// Depth returns a copy of the depth axis.
func (t *Table) Depth() DepthAxis {
	return slices.Clone(t.depth)
}

// Series returns a copy of the series of the channel identified by key, name or column header.
func (t *Table) Series(id string) (ChannelSeries, bool) {
	for i, c := range t.channels {
		if strings.EqualFold(id, c.Key) || strings.EqualFold(id, c.Name) || id == c.Column() {
			return slices.Clone(t.series[i]), true
		}
	}
	return nil, false
}

// Row returns row i as depth followed by the channel values.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, 0, len(t.series)+1)
	row = append(row, t.depth[i])
	for _, s := range t.series {
		row = append(row, s[i])
	}
	return row
}

// Rows returns every row in depth order.
func (t *Table) Rows() [][]float64 {
	rows := make([][]float64, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Head returns a table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, t.Len()))
	head := &Table{
		depth:    slices.Clone(t.depth[:n]),
		channels: slices.Clone(t.channels),
		series:   make([]ChannelSeries, len(t.series)),
		seed:     t.seed,
	}
	for i, s := range t.series {
		head.series[i] = slices.Clone(s[:n])
	}
	return head
}

// SameShape reports whether both tables have the same columns and row count.
func (t *Table) SameShape(other *Table) bool {
	return t.Len() == other.Len() && slices.Equal(t.Columns(), other.Columns())
}

type tableJSON struct {
	Seed    int64       `json:"seed"`
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// MarshalJSON encodes the table row-oriented, the way front ends preview it.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{Seed: t.seed, Columns: t.Columns(), Rows: t.Rows()})
}

// FromRows rebuilds a table from a header row and row-oriented values, as read
// back from an exported file. The first column must be the depth column; known
// channel headers recover their full spec, unknown ones keep only the name.
func FromRows(columns []string, rows [][]float64) (*Table, error) {
	if len(columns) == 0 || columns[0] != DepthColumn {
		return nil, fmt.Errorf("%w: first column must be %q", ErrColumnLength, DepthColumn)
	}

	channels := make([]ChannelSpec, len(columns)-1)
	for i, col := range columns[1:] {
		spec, ok := LookupChannel(col)
		if !ok {
			spec = ChannelSpec{Name: col}
		}
		channels[i] = spec
	}

	depth := make(DepthAxis, len(rows))
	series := make([]ChannelSeries, len(channels))
	for i := range series {
		series[i] = make(ChannelSeries, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, header has %d", ErrColumnLength, r, len(row), len(columns))
		}
		depth[r] = row[0]
		for i := range series {
			series[i][r] = row[i+1]
		}
	}
	return NewTable(depth, channels, series)
}
