package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	t.Run("serialises holders of the same key", func(t *testing.T) {
		l := NewMemoryLocker()
		var inside, maxInside int32
		var wg sync.WaitGroup

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := l.Lock(context.Background(), "integration:a")
				require.NoError(t, err)
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				release()
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxInside)
		assert.Zero(t, l.Len())
	})

	t.Run("different keys do not block each other", func(t *testing.T) {
		l := NewMemoryLocker()
		releaseA, err := l.Lock(context.Background(), "integration:a")
		require.NoError(t, err)
		defer releaseA()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		releaseB, err := l.Lock(ctx, "integration:b")
		require.NoError(t, err)
		releaseB()
	})

	t.Run("waiter gives up when context ends", func(t *testing.T) {
		l := NewMemoryLocker()
		release, err := l.Lock(context.Background(), "connector:x")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = l.Lock(ctx, "connector:x")
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		release()
		assert.Zero(t, l.Len())
	})

	t.Run("cancelled context fails fast even when free", func(t *testing.T) {
		l := NewMemoryLocker()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := l.Lock(ctx, "connector:x")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, l.Len())
	})

	t.Run("release is idempotent", func(t *testing.T) {
		l := NewMemoryLocker()
		release, err := l.Lock(context.Background(), "k")
		require.NoError(t, err)
		release()
		release()

		again, err := l.Lock(context.Background(), "k")
		require.NoError(t, err)
		again()
		assert.Zero(t, l.Len())
	})
}
