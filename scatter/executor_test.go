package scatter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taboola/cassandra-count/types"
)

func makeSplits(ranges ...types.TokenRange) []types.Split {
	out := make([]types.Split, len(ranges))
	for i, r := range ranges {
		out[i] = types.Split{Index: i, Range: r}
	}

	return out
}

func evenSplits(n int) []types.Split {
	return makeSplits(types.TokenRange{Start: 0, End: types.Token(n)}.SplitEvenly(n)...)
}

// tokenCounter counts fixed tokens per range.
func tokenCounter(tokens ...types.Token) CounterFunc {
	return func(_ context.Context, r types.TokenRange) (int64, error) {
		var n int64
		for _, tok := range tokens {
			if r.Contains(tok) {
				n++
			}
		}
		return n, nil
	}
}

func TestExecuteSumsCounts(t *testing.T) {
	ranges := types.TokenRange{Start: 0, End: 100}.SplitEvenly(4)

	total, err := New().Execute(context.Background(), makeSplits(ranges...), tokenCounter(10, 30, 60, 90))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), total)
}

func TestExecuteEmptyPlan(t *testing.T) {
	total, err := New().Execute(context.Background(), nil, tokenCounter())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestExecuteWindowSizes(t *testing.T) {
	var windows []WindowStats
	exec := New(WithWindowSize(2), WithWindowObserver(func(s WindowStats) {
		windows = append(windows, s)
	}))

	total, err := exec.Execute(context.Background(), evenSplits(5), CounterFunc(func(context.Context, types.TokenRange) (int64, error) {
		return 1, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)

	require.Len(t, windows, 3)
	sizes := []int{windows[0].Size, windows[1].Size, windows[2].Size}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	for i, w := range windows {
		assert.Equal(t, i, w.Index)
		assert.Zero(t, w.Failed)
	}
}

func TestExecuteWindowsDoNotOverlap(t *testing.T) {
	const window = 3

	var (
		mu       sync.Mutex
		started  = map[int]int{} // split index -> window observed so far
		drained  atomic.Int32
		inFlight atomic.Int32
		maxSeen  atomic.Int32
	)

	exec := New(WithWindowSize(window), WithWindowObserver(func(WindowStats) {
		drained.Add(1)
	}))

	counter := CounterFunc(func(_ context.Context, r types.TokenRange) (int64, error) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			prev := maxSeen.Load()
			if cur <= prev || maxSeen.CompareAndSwap(prev, cur) {
				break
			}
		}

		mu.Lock()
		started[int(r.End)] = int(drained.Load())
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)
		return 1, nil
	})

	splits := evenSplits(10)
	_, err := exec.Execute(context.Background(), splits, counter)
	require.NoError(t, err)

	assert.LessOrEqual(t, maxSeen.Load(), int32(window))
	for i, s := range splits {
		// Split i starts only after every earlier window has drained.
		assert.Equal(t, i/window, started[int(s.Range.End)], "split %d", i)
	}
}

func TestExecuteFailureStopsLaterWindows(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("coordinator unavailable")

	var windows []WindowStats
	exec := New(WithWindowSize(2), WithWindowObserver(func(s WindowStats) {
		windows = append(windows, s)
	}))

	counter := CounterFunc(func(_ context.Context, r types.TokenRange) (int64, error) {
		calls.Add(1)
		if r.End == 3 {
			return 0, boom
		}
		return 7, nil
	})

	total, err := exec.Execute(context.Background(), evenSplits(6), counter)
	require.Error(t, err)
	assert.Zero(t, total)
	assert.ErrorIs(t, err, boom)
	assert.True(t, types.IsKind(err, types.KindQuery))
	assert.Contains(t, err.Error(), "count split 2 (2,3]")

	// Window 0 and the full failing window 1 ran; window 2 was never admitted.
	assert.Equal(t, int32(4), calls.Load())
	require.Len(t, windows, 2)
	assert.Equal(t, 1, windows[1].Failed)
}

func TestExecuteDrainsFailingWindow(t *testing.T) {
	var finished atomic.Int32
	counter := CounterFunc(func(ctx context.Context, r types.TokenRange) (int64, error) {
		if r.End == 1 {
			return 0, errors.New("fail fast")
		}
		select {
		case <-time.After(30 * time.Millisecond):
			finished.Add(1)
			return 1, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})

	_, err := New(WithWindowSize(4)).Execute(context.Background(), evenSplits(4), counter)
	require.Error(t, err)
	// Without cancel-on-failure, the slow siblings complete normally.
	assert.Equal(t, int32(3), finished.Load())
}

func TestExecuteCancelOnFailure(t *testing.T) {
	var cancelled atomic.Int32
	counter := CounterFunc(func(ctx context.Context, r types.TokenRange) (int64, error) {
		if r.End == 1 {
			return 0, errors.New("fail fast")
		}
		select {
		case <-time.After(5 * time.Second):
			return 1, nil
		case <-ctx.Done():
			cancelled.Add(1)
			return 0, ctx.Err()
		}
	})

	began := time.Now()
	_, err := New(WithWindowSize(4), WithCancelOnFailure(true)).Execute(context.Background(), evenSplits(4), counter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fail fast")
	assert.Equal(t, int32(3), cancelled.Load())
	assert.Less(t, time.Since(began), 2*time.Second)
}

func TestExecuteQueryTimeout(t *testing.T) {
	counter := CounterFunc(func(ctx context.Context, _ types.TokenRange) (int64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	_, err := New(WithQueryTimeout(20*time.Millisecond)).Execute(context.Background(), evenSplits(1), counter)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out after 20ms")
	assert.True(t, types.IsKind(err, types.KindQuery))
}

func TestExecuteNegativeCountFails(t *testing.T) {
	counter := CounterFunc(func(context.Context, types.TokenRange) (int64, error) {
		return -1, nil
	})

	total, err := New().Execute(context.Background(), evenSplits(2), counter)
	require.ErrorIs(t, err, types.ErrNegativeCount)
	assert.Zero(t, total)
}

func TestExecuteCancelledContextAdmitsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	counter := CounterFunc(func(context.Context, types.TokenRange) (int64, error) {
		calls.Add(1)
		return 1, nil
	})

	_, err := New().Execute(ctx, evenSplits(3), counter)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestExecutePreservesTypedErrors(t *testing.T) {
	typed := types.NewConnectionError("session closed", errors.New("eof"))
	counter := CounterFunc(func(context.Context, types.TokenRange) (int64, error) {
		return 0, typed
	})

	_, err := New().Execute(context.Background(), evenSplits(1), counter)
	require.Error(t, err)
	assert.Equal(t, types.KindConnection, types.KindOf(err))
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	exec := New(WithWindowSize(0), WithLogger(nil), WithMetrics(nil))
	assert.Equal(t, DefaultWindowSize, exec.WindowSize())
	assert.NotNil(t, exec.logger)
	assert.NotNil(t, exec.metrics)
}
