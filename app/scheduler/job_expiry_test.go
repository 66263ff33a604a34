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

type fakeCloser struct {
	calls  atomic.Int32
	closed int64
	err    error
}

func (f *fakeCloser) CloseExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return f.closed, f.err
}

func TestNewJobExpiryScheduler(t *testing.T) {
	_, err := NewJobExpiryScheduler(nil, "")
	assert.Error(t, err)

	_, err = NewJobExpiryScheduler(&fakeCloser{}, "every other tuesday")
	assert.Error(t, err)

	s, err := NewJobExpiryScheduler(&fakeCloser{}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultJobExpirySpec, s.spec)
}

func TestJobExpiryScheduler_RunOnce(t *testing.T) {
	closer := &fakeCloser{closed: 3}
	s, err := NewJobExpiryScheduler(closer, "*/5 * * * *")
	require.NoError(t, err)

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), closer.calls.Load())

	closer.err = errors.New("database unavailable")
	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), closer.calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)
	assert.Equal(t, int32(2), closer.calls.Load())
}

func TestJobExpiryScheduler_StartRunsImmediately(t *testing.T) {
	closer := &fakeCloser{}
	s, err := NewJobExpiryScheduler(closer, "@every 1h")
	require.NoError(t, err)

	stop, err := s.Start(context.Background())
	require.NoError(t, err)
	defer stop()

	assert.Eventually(t, func() bool {
		return closer.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)
}
