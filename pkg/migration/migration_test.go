package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/pkg/database"
)

type createTable struct{ name string }

func (m createTable) Up(db *gorm.DB) error {
	return db.Exec("CREATE TABLE " + m.name + " (id INTEGER PRIMARY KEY)").Error
}

func (m createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.name)
}

func withRegistry(t *testing.T, regs ...registered) {
	t.Helper()
	saved := registry
	registry = regs
	t.Cleanup(func() { registry = saved })
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestRunRollbackStatus(t *testing.T) {
	withRegistry(t,
		registered{"20250101000001_b", createTable{"b"}},
		registered{"20250101000000_a", createTable{"a"}},
	)
	db := openDB(t)
	var out bytes.Buffer
	r := New(db, &out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, db.Migrator().HasTable("a"))
	assert.True(t, db.Migrator().HasTable("b"))
	assert.Less(t, bytes.Index(out.Bytes(), []byte("_a")), bytes.Index(out.Bytes(), []byte("_b")), "runs in name order")

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	Register("20250101000002_c", createTable{"c"})
	n, err = r.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	status, err := r.Status()
	require.NoError(t, err)
	require.Len(t, status, 3)
	assert.Equal(t, Status{Name: "20250101000000_a", Ran: true, Batch: 1}, status[0])
	assert.Equal(t, Status{Name: "20250101000002_c", Ran: true, Batch: 2}, status[2])

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable("c"))
	assert.True(t, db.Migrator().HasTable("a"))

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}
