package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AkaOko/react-trpo/pkg/schedule"
)

func TestEvery_RunsUntilCancelled(t *testing.T) {
	s := schedule.New()
	var runs atomic.Int32
	s.Every("tick", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestEvery_NoOverlap(t *testing.T) {
	s := schedule.New()
	var active, maxActive atomic.Int32
	s.Every("slow", 5*time.Millisecond, func(ctx context.Context) error {
		n := active.Add(1)
		defer active.Add(-1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		select {
		case <-time.After(40 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	s.Start(ctx)
	<-ctx.Done()
	s.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
}

func TestEvery_FailuresAndPanicsKeepTheLoopAlive(t *testing.T) {
	s := schedule.New()
	var runs atomic.Int32
	s.Every("flaky", 5*time.Millisecond, func(context.Context) error {
		switch runs.Add(1) {
		case 1:
			return errors.New("boom")
		case 2:
			panic("boom")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()
}

func TestEvery_IgnoresNonPositiveInterval(t *testing.T) {
	s := schedule.New()
	s.Every("never", 0, func(context.Context) error { return nil })
	assert.Equal(t, 0, s.Len())
}
