package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *domain.Table {
	t.Helper()
	channels := domain.DefaultChannels()
	series := []domain.ChannelSeries{
		{2, 2.5, 3},
		{60, 61, 62},
		{200, 210, 220},
		{5, 6, 7},
	}
	table, err := domain.NewTable(domain.DepthAxis{500, 505, 510}, channels, series)
	require.NoError(t, err)
	return table
}

func TestNewTable_ColumnsInExportOrder(t *testing.T) {
	table := sampleTable(t)

	assert.Equal(t, []string{
		"Depth (m)",
		"ROP (m/h)",
		"RPM",
		"Flow Rate (L/min)",
		"Weight on Bit (tons)",
	}, table.Columns())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []float64{505, 2.5, 61, 210, 6}, table.Row(1))
}

func TestNewTable_RejectsMisalignedColumns(t *testing.T) {
	channels := domain.DefaultChannels()

	tests := []struct {
		name   string
		series []domain.ChannelSeries
	}{
		{"ShortColumn", []domain.ChannelSeries{{1, 2}, {60, 61, 62}, {200, 210, 220}, {5, 6, 7}}},
		{"MissingColumn", []domain.ChannelSeries{{2, 3, 4}, {60, 61, 62}, {200, 210, 220}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewTable(domain.DepthAxis{500, 505, 510}, channels, tt.series)
			assert.ErrorIs(t, err, domain.ErrColumnLength)
		})
	}
}

func TestNewTable_RejectsDuplicateColumns(t *testing.T) {
	rop := domain.DefaultChannels()[0]
	_, err := domain.NewTable(domain.DepthAxis{1}, []domain.ChannelSpec{rop, rop}, []domain.ChannelSeries{{3}, {4}})
	assert.ErrorIs(t, err, domain.ErrColumnLength)
}

func TestTable_IsImmutable(t *testing.T) {
	depth := domain.DepthAxis{500, 505, 510}
	rop := domain.ChannelSeries{2, 2.5, 3}
	table, err := domain.NewTable(depth, domain.DefaultChannels()[:1], []domain.ChannelSeries{rop})
	require.NoError(t, err)

	depth[0] = -1
	rop[0] = -1
	got, ok := table.Series(domain.KeyROP)
	require.True(t, ok)
	got[1] = -1

	assert.Equal(t, []float64{500, 2}, table.Row(0))
	again, _ := table.Series("ROP (m/h)")
	assert.Equal(t, domain.ChannelSeries{2, 2.5, 3}, again)
}

func TestTable_Head(t *testing.T) {
	table := sampleTable(t).WithSeed(7)

	head := table.Head(2)
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, int64(7), head.Seed())
	assert.Equal(t, table.Columns(), head.Columns())

	assert.Equal(t, 3, table.Head(50).Len())
	assert.Equal(t, 0, table.Head(-1).Len())
}

func TestTable_MarshalJSON(t *testing.T) {
	table := sampleTable(t).WithSeed(42)

	data, err := json.Marshal(table)
	require.NoError(t, err)

	var decoded struct {
		Seed    int64       `json:"seed"`
		Columns []string    `json:"columns"`
		Rows    [][]float64 `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, int64(42), decoded.Seed)
	assert.Equal(t, table.Columns(), decoded.Columns)
	assert.Equal(t, table.Rows(), decoded.Rows)
}
