package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/registre-medical/registry-api/migrations"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/registry", migrateURL("postgres://u:p@db:5432/registry"))
	assert.Equal(t, "pgx5://db/registry?sslmode=disable", migrateURL("postgresql://db/registry?sslmode=disable"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}

func TestRunMigrationsWithoutDSN(t *testing.T) {
	assert.NoError(t, RunMigrations("", migrations.FS, zap.NewNop()))
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
}
