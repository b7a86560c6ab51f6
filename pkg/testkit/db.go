// Package testkit holds the helpers shared by handler and service tests: a
// migrated in-memory database and a small HTTP request driver.
package testkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/AkaOko/react-trpo/database/migrations"
	"github.com/AkaOko/react-trpo/pkg/database"
	"github.com/AkaOko/react-trpo/pkg/migration"
)

// DB returns a fresh, fully migrated in-memory SQLite database private to
// the test. It is closed on cleanup.
func DB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err, "testkit: open database")
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db, nil).Run()
	require.NoError(t, err, "testkit: migrate")
	return db
}
