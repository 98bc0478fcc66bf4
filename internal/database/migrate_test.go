package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, 1, migrationVersion("001_init.sql"))
	assert.Equal(t, 42, migrationVersion("042_add_indexes.sql"))
	assert.Equal(t, 0, migrationVersion("init.sql"))
	assert.Equal(t, 0, migrationVersion("_001.sql"))
}
