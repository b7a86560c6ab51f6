// Package seeders fills a fresh database with demo data.
//
// Seeders register themselves from init():
//
//	func init() { seeders.Register("users", seedUsers) }
//
// and run with `jewelry seed` (optionally `--only users,catalog`).
package seeders

import (
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder; seeders run in registration order.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// Names lists the registered seeders in run order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// Run executes the named seeders, or all of them when only is empty.
// It stops on the first error.
func Run(db *gorm.DB, out io.Writer, only ...string) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	want := make(map[string]bool, len(only))
	for _, n := range only {
		want[n] = true
	}

	ran := 0
	for _, e := range current {
		if len(want) > 0 && !want[e.name] {
			continue
		}
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(db); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
		ran++
	}

	if ran == 0 {
		fmt.Fprintln(out, "  (no seeders matched)")
	}
	return nil
}
