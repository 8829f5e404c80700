package tests

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/ports"
)

// CodecContractTest is a reusable test suite that verifies an adapter complies with ports.TableCodec.
// Values must survive a write/read cycle within tolerance.
func CodecContractTest(t *testing.T, codec ports.TableCodec, tolerance float64) {
	t.Helper()

	table := fixtureTable(t, 1234, 41)

	t.Run("RoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		if err := codec.Write(&buf, table); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		got, err := codec.Read(&buf)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}

		if !got.SameShape(table) {
			t.Fatalf("shape mismatch: got %v x %d, want %v x %d", got.Columns(), got.Len(), table.Columns(), table.Len())
		}
		want := table.Rows()
		for i, row := range got.Rows() {
			for j, v := range row {
				if diff := v - want[i][j]; diff > tolerance || diff < -tolerance {
					t.Fatalf("row %d col %d: got %v, want %v", i, j, v, want[i][j])
				}
			}
		}
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		empty := table.Head(0)
		var buf bytes.Buffer
		if err := codec.Write(&buf, empty); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		got, err := codec.Read(&buf)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if got.Len() != 0 || len(got.Columns()) != len(table.Columns()) {
			t.Errorf("expected empty table with %d columns, got %d rows, %v", len(table.Columns()), got.Len(), got.Columns())
		}
	})

	t.Run("FormatHasExtension", func(t *testing.T) {
		if codec.Format().Extension() == "" {
			t.Error("serializer format has no extension")
		}
	})
}

// fixtureTable builds a deterministic table with awkward decimal values.
func fixtureTable(t *testing.T, seed int64, rows int) *domain.Table {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	channels := domain.DefaultChannels()

	depth := make(domain.DepthAxis, rows)
	series := make([]domain.ChannelSeries, len(channels))
	for i := range series {
		series[i] = make(domain.ChannelSeries, rows)
	}
	for r := 0; r < rows; r++ {
		depth[r] = 500 + float64(r)*0.1
		for i, c := range channels {
			series[i][r] = c.Min + rng.Float64()*(c.Max-c.Min)
		}
	}

	table, err := domain.NewTable(depth, channels, series)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return table
}
