// Package event is an in-process publish/subscribe dispatcher.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/AkaOko/react-trpo/pkg/logger"
)

// Handler receives the payload of one fired event.
type Handler func(ctx context.Context, payload any)

// Dispatcher routes named events to their listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
}

func New() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers handler for event.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Handler(nil), d.handlers[event]...)
}

// Fire runs every listener of event in order on the calling goroutine.
func (d *Dispatcher) Fire(ctx context.Context, event string, payload any) {
	for _, h := range d.listeners(event) {
		run(ctx, event, h, payload)
	}
}

// FireAsync runs each listener on its own goroutine and returns at once.
// The listeners see a context detached from ctx's cancellation.
func (d *Dispatcher) FireAsync(ctx context.Context, event string, payload any) {
	ctx = context.WithoutCancel(ctx)
	for _, h := range d.listeners(event) {
		d.wg.Add(1)
		go func(h Handler) {
			defer d.wg.Done()
			run(ctx, event, h, payload)
		}(h)
	}
}

// Wait blocks until every FireAsync listener has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// run isolates a panicking listener from the publisher.
func run(ctx context.Context, event string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", event, "panic", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}
