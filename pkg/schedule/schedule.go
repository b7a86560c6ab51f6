// Package schedule runs background jobs on a fixed interval.
//
//	s := schedule.New()
//	s.Every("users.drift", 24*time.Hour, checkDrift)
//	s.Start(ctx)
//
// A job never overlaps itself: a tick that finds the previous run still
// going is skipped.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/AkaOko/react-trpo/pkg/logger"
)

// Job is one unit of scheduled work. It should return when ctx ends.
type Job func(ctx context.Context) error

type entry struct {
	name     string
	interval time.Duration
	job      Job

	mu      sync.Mutex
	running bool
}

// Scheduler holds the registered jobs.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

func New() *Scheduler { return &Scheduler{} }

// Every registers job to run every interval. Non-positive intervals are
// ignored.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &entry{name: name, interval: interval, job: job})
}

// Len reports how many jobs are registered.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start runs every registered job on its own ticker until ctx ends. The
// first run happens one interval after Start.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	current := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	for _, e := range current {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx, e)
		}()
	}
}

// Wait blocks until every loop and in-flight run has returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatch(ctx, e)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping run", "job", e.name)
		return
	}
	e.running = true
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: job panicked", "job", e.name, "panic", r)
			}
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()

		start := time.Now()
		if err := e.job(ctx); err != nil {
			logger.Error("schedule: job failed", "job", e.name, "error", err)
			return
		}
		logger.Debug("schedule: job finished", "job", e.name, "took", time.Since(start))
	}()
}
