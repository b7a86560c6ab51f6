package event_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AkaOko/react-trpo/pkg/event"
)

func TestFire(t *testing.T) {
	d := event.New()
	var got []any
	d.Listen("order.created", func(_ context.Context, p any) { got = append(got, p) })
	d.Listen("order.created", func(_ context.Context, p any) { got = append(got, p) })
	d.Listen("other", func(context.Context, any) { t.Fatal("wrong listener") })

	d.Fire(context.Background(), "order.created", 7)
	assert.Equal(t, []any{7, 7}, got)
}

func TestFireAsync(t *testing.T) {
	d := event.New()
	var n atomic.Int32
	for i := 0; i < 3; i++ {
		d.Listen("order.status_changed", func(context.Context, any) { n.Add(1) })
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.FireAsync(ctx, "order.status_changed", nil)
	cancel()
	d.Wait()

	assert.Equal(t, int32(3), n.Load())
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	d := event.New()
	ran := false
	d.Listen("e", func(context.Context, any) { panic("boom") })
	d.Listen("e", func(context.Context, any) { ran = true })

	assert.NotPanics(t, func() { d.Fire(context.Background(), "e", nil) })
	assert.True(t, ran)
}
