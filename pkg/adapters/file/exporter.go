// Package file exports drilling tables to uniquely named files on the local filesystem.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/ports"
)

const (
	// DefaultMaxAttempts caps the free name search.
	DefaultMaxAttempts = 10000

	// DefaultLockTTL bounds how long a crashed exporter can hold a name lock.
	DefaultLockTTL = 30 * time.Second
)

// Resolver selects the serializer for a format (see registry.Registry).
type Resolver interface {
	Lookup(format domain.Format) (ports.TableSerializer, error)
}

// Exporter writes tables to {Directory}/{Prefix}_{index}.{ext}, picking the
// lowest index whose file does not exist yet. It never reuses a name it has
// seen on disk.
//
// The search itself is stateless: two exporters that do not share a Locker can
// still pick the same index concurrently. The file is published with a hard
// link, which fails instead of replacing a file created in the meantime; the
// loser moves on to the next index. Configure WithLocker when several
// processes or goroutines write to the same directory and prefix to keep the
// indices free of such retries.
type Exporter struct {
	serializers Resolver
	maxAttempts int
	locker      ports.Locker
	lockTTL     time.Duration
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	lstat       func(string) (fs.FileInfo, error)
}

// Option configures the Exporter.
type Option func(*Exporter)

// WithMaxAttempts sets the number of candidate indices tried before giving up
// with domain.ErrNamingExhaustion.
func WithMaxAttempts(n int) Option {
	return func(x *Exporter) {
		if n > 0 {
			x.maxAttempts = n
		}
	}
}

// WithLocker serializes the name search and write across exporters sharing the locker.
func WithLocker(l ports.Locker) Option {
	return func(x *Exporter) {
		x.locker = l
	}
}

// WithLockTTL sets the TTL passed to the locker.
func WithLockTTL(ttl time.Duration) Option {
	return func(x *Exporter) {
		if ttl > 0 {
			x.lockTTL = ttl
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Exporter) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// WithLifecycleHooks registers the OnExport hook.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(x *Exporter) {
		x.hooks = hooks
	}
}

// NewExporter creates an exporter that serializes through serializers.
func NewExporter(serializers Resolver, opts ...Option) *Exporter {
	x := &Exporter{
		serializers: serializers,
		maxAttempts: DefaultMaxAttempts,
		lockTTL:     DefaultLockTTL,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		lstat:       os.Lstat,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Export writes table to the first free name of target and returns its path.
// The file appears atomically: it is written to a temporary file in the same
// directory, synced and linked into place. An existing file is never replaced.
// On failure no file is left behind.
func (x *Exporter) Export(ctx context.Context, table *domain.Table, target domain.ExportTarget) (path string, err error) {
	start := time.Now()
	attempts := 0
	defer func() {
		x.emitExport(ctx, target.Format, path, attempts, time.Since(start), err)
	}()

	if err := target.Validate(); err != nil {
		return "", err
	}
	serializer, err := x.serializers.Lookup(target.Format)
	if err != nil {
		return "", err
	}

	// 1. Ensure directory exists
	if err := os.MkdirAll(target.Directory, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create directory %q: %w", domain.ErrExportIO, target.Directory, err)
	}

	// 2. Serialize to a temp file
	tmpPath, err := writeTemp(target.Directory, func(w io.Writer) error {
		return serializer.Write(w, table)
	})
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpPath)

	// 3. Hold the name lock across search and publish
	if x.locker != nil {
		unlock, err := x.locker.Lock(ctx, lockKey(target), x.lockTTL)
		if err != nil {
			return "", fmt.Errorf("failed to lock %q: %w", lockKey(target), err)
		}
		defer func() {
			if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
				x.logger.Warn("failed to release export lock", "key", lockKey(target), "err", uerr)
			}
		}()
	}

	// 4. Publish under the first free index, skipping names taken meanwhile
	for from := 1; ; from = attempts + 1 {
		path, attempts, err = x.nextFreeName(target, from)
		if err != nil {
			return "", err
		}
		err = publish(tmpPath, path)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			path = ""
			return "", fmt.Errorf("%w: failed to move file into place: %w", domain.ErrExportIO, err)
		}
		x.logger.Debug("export name taken concurrently", "path", path)
	}

	x.logger.Info("table exported", "path", path, "format", target.Format, "rows", table.Len(), "attempts", attempts)
	return path, nil
}

// NextFreeName returns the path the next Export to target would use, without
// writing anything.
func (x *Exporter) NextFreeName(target domain.ExportTarget) (string, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	path, _, err := x.nextFreeName(target, 1)
	return path, err
}

// nextFreeName searches from index from upwards; the returned count is the last index tried.
func (x *Exporter) nextFreeName(target domain.ExportTarget, from int) (string, int, error) {
	for i := from; i <= x.maxAttempts; i++ {
		candidate := filepath.Join(target.Directory, target.FileName(i))
		_, err := x.lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, i, nil
		}
		if err != nil {
			return "", i, fmt.Errorf("%w: failed to check %q: %w", domain.ErrExportIO, candidate, err)
		}
	}
	return "", x.maxAttempts, fmt.Errorf("%w: %s_1..%d.%s all exist in %q",
		domain.ErrNamingExhaustion, target.Prefix, x.maxAttempts, target.Format.Extension(), target.Directory)
}

// writeTemp writes through a synced temp file in dir and returns its path.
// The caller removes it once it has been published.
func writeTemp(dir string, write func(io.Writer) error) (string, error) {
	// 1. Create Temp File (same directory, required for linking into place)
	tmpFile, err := os.CreateTemp(dir, ".drillsim-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp file: %w", domain.ErrExportIO, err)
	}
	tmpPath := tmpFile.Name()

	fail := func(msg string, err error) (string, error) {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExportIO, msg, err)
	}

	// 2. Write Data
	bw := bufio.NewWriter(tmpFile)
	if err := write(bw); err != nil {
		return fail("failed to serialize table", err)
	}
	if err := bw.Flush(); err != nil {
		return fail("failed to write temp file", err)
	}

	// 3. Fsync to ensure durability
	if err := tmpFile.Sync(); err != nil {
		return fail("failed to fsync temp file", err)
	}

	// 4. Close File
	if err := tmpFile.Close(); err != nil {
		return fail("failed to close temp file", err)
	}

	// CreateTemp uses 0600; exported data is meant to be shared.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: failed to set file mode: %w", domain.ErrExportIO, err)
	}
	return tmpPath, nil
}

// publish makes tmpPath visible as dest. It fails with fs.ErrExist rather
// than replace an existing dest. Filesystems without hard links fall back to
// rename, which does not have that guarantee.
func publish(tmpPath, dest string) error {
	err := os.Link(tmpPath, dest)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return err
	}
	if errors.Is(err, errors.ErrUnsupported) || errors.Is(err, fs.ErrPermission) {
		return os.Rename(tmpPath, dest)
	}
	return err
}

func lockKey(target domain.ExportTarget) string {
	dir, err := filepath.Abs(target.Directory)
	if err != nil {
		dir = filepath.Clean(target.Directory)
	}
	return filepath.Join(dir, target.Prefix) + "." + target.Format.Extension()
}

func (x *Exporter) emitExport(ctx context.Context, format domain.Format, path string, attempts int, d time.Duration, err error) {
	if x.hooks.OnExport == nil {
		return
	}
	x.hooks.OnExport(ctx, &domain.ExportEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventExport},
		Format:    format,
		Path:      path,
		Attempts:  attempts,
		Duration:  d,
		Err:       err,
	})
}
