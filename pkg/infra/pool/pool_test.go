package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultConfig(t *testing.T) {
	p, err := New("test", nil)
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, "test", p.Name())
	assert.Equal(t, 32, p.Stats().Capacity)
}

func TestPool_SubmitExecutesTasks(t *testing.T) {
	p, err := New("test", &Config{Capacity: 4, ExpiryDuration: time.Second})
	require.NoError(t, err)
	defer p.Release()

	var counter atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(50), counter.Load())

	stats := p.Stats()
	assert.Equal(t, int64(50), stats.Submitted)
	assert.Equal(t, int64(50), stats.Completed)
	assert.Equal(t, int64(0), stats.Failed)
}

func TestPool_SubmitWithContextCancelled(t *testing.T) {
	p, err := New("test", &Config{Capacity: 2, ExpiryDuration: time.Second})
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.SubmitWithContext(ctx, func() {
		t.Error("task should not run with a cancelled context")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPool_SubmitAfterRelease(t *testing.T) {
	p, err := New("test", &Config{Capacity: 2, ExpiryDuration: time.Second})
	require.NoError(t, err)

	p.Release()
	// Release is idempotent.
	p.Release()

	err = p.Submit(func() {
		t.Error("task should not run on a released pool")
	})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPool_NonblockingOverload(t *testing.T) {
	p, err := New("test", &Config{
		Capacity:       1,
		ExpiryDuration: time.Second,
		Nonblocking:    true,
	})
	require.NoError(t, err)
	defer p.Release()

	release := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-release }))

	// The single worker is busy; a nonblocking pool rejects the next task.
	var rejected error
	for i := 0; i < 10; i++ {
		if rejected = p.Submit(func() {}); rejected != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(release)

	assert.ErrorIs(t, rejected, ErrPoolOverload)
	assert.GreaterOrEqual(t, p.Stats().Rejected, int64(1))
}

func TestPool_SubmittedCountsRejectedTasks(t *testing.T) {
	p, err := New("test", &Config{
		Capacity:       1,
		ExpiryDuration: time.Second,
		Nonblocking:    true,
	})
	require.NoError(t, err)
	defer p.Release()

	release := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-release }))

	calls := int64(1)
	var rejected error
	for i := 0; i < 10; i++ {
		calls++
		if rejected = p.Submit(func() {}); rejected != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(release)
	require.ErrorIs(t, rejected, ErrPoolOverload)

	// Submitted counts every Submit call at submit time, so a rejected
	// task shows up in both Submitted and Rejected.
	stats := p.Stats()
	assert.Equal(t, calls, stats.Submitted)
	assert.GreaterOrEqual(t, stats.Rejected, int64(1))
}
