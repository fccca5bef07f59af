package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnce_ConcurrentCallersShareOneLoad(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	entry := New("model", func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "forest", nil
	})

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := entry.Get(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, "forest", v)
	}
}

func TestOnce_ErrorIsMemoized(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("artifact missing")
	entry := New("model", func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, boom
	})

	for i := 0; i < 3; i++ {
		_, err := entry.Get(context.Background())
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, int32(1), calls.Load())

	st := entry.Status()
	assert.False(t, st.Loaded)
	assert.Equal(t, "artifact missing", st.Error)
	assert.False(t, st.LoadedAt.IsZero())
}

func TestOnce_StatusDoesNotLoad(t *testing.T) {
	var calls atomic.Int32
	entry := New("dataset", func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	})

	st := entry.Status()
	assert.Equal(t, "dataset", st.Name)
	assert.False(t, st.Loaded)
	assert.Empty(t, st.Error)
	assert.Equal(t, int32(0), calls.Load())

	v, err := entry.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, entry.Status().Loaded)
}

func TestOnce_CancelledCallerDoesNotPoisonLoad(t *testing.T) {
	entry := New("model", func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "ok", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := entry.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}
