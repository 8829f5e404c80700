package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/drillsim/pkg/adapters/file"
	"github.com/aretw0/drillsim/pkg/adapters/redis"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/registry"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T, opts ...redis.Option) (*redis.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	opts = append([]redis.Option{redis.WithPollInterval(10 * time.Millisecond)}, opts...)
	return redis.NewLocker(client, opts...), mr
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	locker, mr := newLocker(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "data/test_data.csv", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:data/test_data.csv"), "lock key should be set")
	assert.Equal(t, 5*time.Second, mr.TTL("test:lock:data/test_data.csv"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:data/test_data.csv"), "lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctxTimeout, "shared", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, unlock2(ctx))
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		unlock2, err := locker.Lock(ctx, "shared", 5*time.Second)
		if assert.NoError(t, err) {
			_ = unlock2(ctx)
		}
		close(acquired)
	}()

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, unlock(ctx))

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired the released lock")
	}
}

func TestRedisLocker_ExpiredLockIsLost(t *testing.T) {
	locker, mr := newLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "short", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	// Someone else takes the expired lock; our release must not delete it.
	unlock2, err := locker.Lock(ctx, "short", 5*time.Second)
	require.NoError(t, err)

	assert.ErrorIs(t, unlock(ctx), redis.ErrLockLost)
	assert.True(t, mr.Exists(redis.DefaultPrefix+"lock:short"))
	assert.NoError(t, unlock2(ctx))
}

func TestRedisLocker_GuardsExporter(t *testing.T) {
	locker, mr := newLocker(t)
	dir := t.TempDir()
	x := file.NewExporter(registry.Default(), file.WithLocker(locker))

	table, err := domain.NewTable(domain.DepthAxis{500}, domain.DefaultChannels(),
		[]domain.ChannelSeries{{3}, {70}, {250}, {6}})
	require.NoError(t, err)

	target := domain.ExportTarget{Directory: dir, Prefix: "run", Format: domain.FormatCSV}
	for i := 0; i < 2; i++ {
		_, err := x.Export(context.Background(), table, target)
		require.NoError(t, err)
	}

	assert.FileExists(t, dir+"/run_1.csv")
	assert.FileExists(t, dir+"/run_2.csv")
	assert.Empty(t, mr.Keys(), "export must release its lock")
}
