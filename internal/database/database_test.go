package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/recipefinder/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	assert.EqualError(t, err, `unsupported database driver "mysql"`)
}

func TestMigrateLifecycle(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	sqlDB, err := db.DB()
	require.NoError(t, err)

	states, err := Status(ctx, sqlDB, "sqlite")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.False(t, states[0].Applied)

	applied, err := MigrateGorm(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.True(t, db.Migrator().HasTable("recipes"))

	applied, err = Migrate(ctx, sqlDB, "sqlite")
	require.NoError(t, err)
	assert.Zero(t, applied, "migrations are applied once")

	states, err = Status(ctx, sqlDB, "sqlite3")
	require.NoError(t, err)
	assert.True(t, states[0].Applied)
	assert.Equal(t, int64(1), states[0].Version)

	require.NoError(t, Rollback(ctx, sqlDB, "sqlite"))
	assert.False(t, db.Migrator().HasTable("recipes"))
}

func TestMigrateUnknownDialect(t *testing.T) {
	db := openMemory(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	_, err = Migrate(context.Background(), sqlDB, "mysql")
	assert.ErrorContains(t, err, `no migrations for driver "mysql"`)
}

func TestSchemaRejectsInvalidRows(t *testing.T) {
	db := openMemory(t)
	_, err := MigrateGorm(context.Background(), db)
	require.NoError(t, err)

	err = db.Exec(`INSERT INTO recipes (title, slug, prep_minutes, cook_minutes, image_large, image_small)
		VALUES ('Bad', 'bad', -1, 0, 'l', 's')`).Error
	assert.Error(t, err, "negative prep time")

	insert := `INSERT INTO recipes (title, slug, prep_minutes, cook_minutes, image_large, image_small)
		VALUES ('Dup', 'dup', 1, 1, 'l', 's')`
	require.NoError(t, db.Exec(insert).Error)
	assert.Error(t, db.Exec(insert).Error, "duplicate slug")
}

func TestHealthCheck(t *testing.T) {
	db := openMemory(t)
	assert.NoError(t, HealthCheck(context.Background(), db))
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(config.RedisConfig{URL: "not-a-redis-url"})
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}
