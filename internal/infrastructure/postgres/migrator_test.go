package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceURL_Migrator(t *testing.T) {
	assert.Equal(t, "file://migrations", sourceURL("migrations"))
	assert.Equal(t, "file:///srv/migrations", sourceURL("/srv/migrations"))
	assert.Equal(t, "github://org/repo/migrations", sourceURL("github://org/repo/migrations"))
}

func TestRunMigrations_MissingSource(t *testing.T) {
	err := RunMigrations("postgres://localhost:1/none?sslmode=disable", t.TempDir()+"/absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open migrations")
}

func TestMigrateLogger(t *testing.T) {
	var l migrateLogger
	assert.False(t, l.Verbose())
	assert.NotPanics(t, func() { l.Printf("applied %d\n", 1) })
}
