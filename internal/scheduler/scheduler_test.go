package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFlusher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFlusher) FlushDirty(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	return f.err
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler("not a schedule", &countingFlusher{}, nil)
	require.Error(t, s.Start())
}

func TestRetryDirtyCallsFlusher(t *testing.T) {
	f := &countingFlusher{err: errors.New("still offline")}
	s := NewScheduler("@every 1m", f, nil)

	s.retryDirty()
	s.retryDirty()
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestScheduledRun(t *testing.T) {
	f := &countingFlusher{}
	s := NewScheduler("@every 1s", f, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return f.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
