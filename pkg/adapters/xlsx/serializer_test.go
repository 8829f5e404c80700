package xlsx_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/drillsim/pkg/adapters/xlsx"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSerializer_Contract(t *testing.T) {
	tests.CodecContractTest(t, xlsx.New(), 0)
}

func TestSerializer_WorkbookLayout(t *testing.T) {
	table, err := domain.NewTable(
		domain.DepthAxis{500, 505},
		domain.DefaultChannels(),
		[]domain.ChannelSeries{{2.5, 3}, {60, 65.25}, {200, 210}, {5, 6.125}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, xlsx.New().Write(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{xlsx.DefaultSheet}, f.GetSheetList())

	header, err := f.GetCellValue(xlsx.DefaultSheet, "E1")
	require.NoError(t, err)
	assert.Equal(t, "Weight on Bit (tons)", header)

	rows, err := f.GetRows(xlsx.DefaultSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"505", "3", "65.25", "210", "6.125"}, rows[2])
}

func TestSerializer_ReadFallsBackToFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Depth (m)", "RPM"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{500.0, 90.5}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := xlsx.New().Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, []float64{500, 90.5}, got.Row(0))
}

func TestSerializer_ReadRejectsGarbage(t *testing.T) {
	_, err := xlsx.New().Read(bytes.NewReader([]byte("not a zip")))
	assert.Error(t, err)
}
