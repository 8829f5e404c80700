package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_NeverReplaces(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, ".drillsim-1.tmp")
	dest := filepath.Join(dir, "test_data_1.csv")
	require.NoError(t, os.WriteFile(tmp, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))

	err := publish(tmp, dest)
	assert.ErrorIs(t, err, fs.ErrExist)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestPublish_FreeName(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, ".drillsim-1.tmp")
	dest := filepath.Join(dir, "test_data_1.csv")
	require.NoError(t, os.WriteFile(tmp, []byte("new"), 0o644))

	require.NoError(t, publish(tmp, dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

// A file created between the name search and the publish step must survive;
// the export moves on to the next index.
func TestExport_NameTakenAfterSearch(t *testing.T) {
	dir := t.TempDir()
	taken := filepath.Join(dir, "test_data_1.csv")
	require.NoError(t, os.WriteFile(taken, []byte("earlier run"), 0o644))

	x := NewExporter(registry.Default())
	x.lstat = func(name string) (fs.FileInfo, error) {
		if name == taken {
			return nil, fs.ErrNotExist
		}
		return os.Lstat(name)
	}

	var event *domain.ExportEvent
	x.hooks.OnExport = func(_ context.Context, e *domain.ExportEvent) { event = e }

	table, err := domain.NewTable(
		domain.DepthAxis{500, 505},
		domain.DefaultChannels(),
		[]domain.ChannelSeries{{2, 2.4}, {60, 64}, {200, 205}, {5, 5.5}},
	)
	require.NoError(t, err)

	path, err := x.Export(context.Background(), table, domain.ExportTarget{Directory: dir, Prefix: "test_data", Format: domain.FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test_data_2.csv"), path)

	data, err := os.ReadFile(taken)
	require.NoError(t, err)
	assert.Equal(t, "earlier run", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp file remains")

	require.NotNil(t, event)
	assert.Equal(t, 2, event.Attempts)
	assert.NoError(t, event.Err)
}
