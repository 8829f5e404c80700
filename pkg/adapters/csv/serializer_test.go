package csv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/drillsim/pkg/adapters/csv"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializer_Contract(t *testing.T) {
	tests.CodecContractTest(t, csv.New(), 0)
}

func TestSerializer_WritesHeaderAndRows(t *testing.T) {
	table, err := domain.NewTable(
		domain.DepthAxis{500, 505},
		domain.DefaultChannels(),
		[]domain.ChannelSeries{{2.5, 3}, {60, 65.25}, {200, 210}, {5, 6.125}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, csv.New().Write(&buf, table))

	want := strings.Join([]string{
		"Depth (m),ROP (m/h),RPM,Flow Rate (L/min),Weight on Bit (tons)",
		"500,2.5,60,200,5",
		"505,3,65.25,210,6.125",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestSerializer_ReadRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"MissingDepth", "ROP (m/h),RPM\n1,2\n"},
		{"NotANumber", "Depth (m),RPM\n500,fast\n"},
		{"RaggedRow", "Depth (m),RPM\n500,60,1\n"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csv.New().Read(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestSerializer_SemicolonDialect(t *testing.T) {
	s := &csv.Serializer{Comma: ';'}
	got, err := s.Read(strings.NewReader("Depth (m);RPM\n500;60\n505;61.5\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Depth (m)", "RPM"}, got.Columns())
	rpm, ok := got.Series(domain.KeyRPM)
	require.True(t, ok)
	assert.Equal(t, domain.ChannelSeries{60, 61.5}, rpm)
}
