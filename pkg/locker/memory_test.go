package locker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/pkg/locker"
)

func TestMemory_AcquireTwice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := locker.NewMemory()

	ok, err := l.TryAcquire(ctx, "m1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.TryAcquire(ctx, "m1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_ReleaseAllowsReacquire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := locker.NewMemory()

	ok, err := l.TryAcquire(ctx, "m1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.Release(ctx, "m1"))

	ok, err = l.TryAcquire(ctx, "m1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemory_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := locker.NewMemory()

	require.NoError(t, l.Release(ctx, "never-acquired"))
	require.NoError(t, l.Release(ctx, ""))
}

func TestMemory_EmptyKeyRejected(t *testing.T) {
	t.Parallel()

	l := locker.NewMemory()

	ok, err := l.TryAcquire(context.Background(), "")
	require.ErrorIs(t, err, locker.ErrEmptyKey)
	require.False(t, ok)
}

func TestMemory_IndependentKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := locker.NewMemory()

	ok, err := l.TryAcquire(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.TryAcquire(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, 2, l.Len())
}

func TestMemory_ConcurrentAcquireExactlyOneWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := locker.NewMemory()

	const goroutines = 50
	var wins atomic.Int32
	var wg sync.WaitGroup

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.TryAcquire(ctx, "contended")
			require.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
}
