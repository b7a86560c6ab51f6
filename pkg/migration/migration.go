// Package migration runs versioned schema migrations and records them, in
// batches, in the schema_migrations table.
//
//	func init() {
//	    migration.Register("20250301000000_create_users_table", &CreateUsersTable{})
//	}
//
//	jewelry migrate            // run all pending
//	jewelry migrate:rollback   // roll back the last batch
package migration

import (
	"database/sql"
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/pkg/logger"
)

// Migration changes the schema one step forward or back.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type registered struct {
	name string
	m    Migration
}

var registry []registered

// Register adds a migration. Names are timestamp-prefixed so they sort in
// the order they must run.
func Register(name string, m Migration) {
	registry = append(registry, registered{name: name, m: m})
}

func sorted() []registered {
	out := append([]registered(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Status is the state of one registered migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner applies the registered migrations to one database.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New returns a runner that reports progress to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run applies every pending migration as one new batch and returns how many
// ran.
func (r *Runner) Run() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	done, err := r.ran()
	if err != nil {
		return 0, err
	}

	var pending []registered
	for _, reg := range sorted() {
		if _, ok := done[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	batch++

	for _, reg := range pending {
		fmt.Fprintf(r.out, "Migrating: %s\n", reg.name)
		if err := reg.m.Up(r.db); err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&record{Name: reg.name, Batch: batch}).Error; err != nil {
			return 0, fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		fmt.Fprintf(r.out, "Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverts the most recent batch in reverse order and returns how
// many were rolled back.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return 0, fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}

		fmt.Fprintf(r.out, "Rolling back: %s\n", row.Name)
		if err := m.Down(r.db); err != nil {
			return 0, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.Delete(&row).Error; err != nil {
			return 0, fmt.Errorf("migration: forget %s: %w", row.Name, err)
		}
	}

	logger.Info("migration: rolled back", "count", len(rows), "batch", batch)
	return len(rows), nil
}

// Status lists every registered migration in run order.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, reg := range sorted() {
		row, ok := done[reg.name]
		out = append(out, Status{Name: reg.name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max sql.NullInt64
	if err := r.db.Model(&record{}).Select("MAX(batch)").Row().Scan(&max); err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return int(max.Int64), nil
}
