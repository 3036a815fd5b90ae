package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/data"
	"github.com/pageza/recipefinder/backend/internal/database"
	"github.com/pageza/recipefinder/backend/internal/model"
	"github.com/pageza/recipefinder/backend/internal/seed"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const (
	postgresUser     = "recipes"
	postgresPassword = "recipes"
	postgresDB       = "recipefinder_test"
)

// SetupSQLiteDB returns a migrated in-memory sqlite database private to the
// test. When seeded is true the bundled dataset is loaded.
func SetupSQLiteDB(t *testing.T, seeded bool) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err, "failed to open sqlite test database")
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	prepare(t, db, seeded)
	return db
}

// SetupPostgresDB starts a postgres container and returns a migrated
// connection to it. The test is skipped when docker is not available.
func SetupPostgresDB(t *testing.T, seeded bool) *gorm.DB {
	t.Helper()
	requireDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
				"POSTGRES_DB":       postgresDB,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						postgresUser, postgresPassword, host, port.Port(), postgresDB)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start postgres container")
	terminateOnCleanup(t, container)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.Open(config.DatabaseConfig{
		Driver:       "postgres",
		Host:         host,
		Port:         mappedPort.Int(),
		User:         postgresUser,
		Password:     postgresPassword,
		Name:         postgresDB,
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 5,
	})
	require.NoError(t, err, "failed to connect to postgres container")
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	prepare(t, db, seeded)
	return db
}

// SetupRedis starts a redis container and returns a connected client. The
// test is skipped when docker is not available.
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()
	requireDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	terminateOnCleanup(t, container)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := database.NewRedisClient(config.RedisConfig{
		Host: host,
		Port: mappedPort.Int(),
	})
	require.NoError(t, err, "failed to connect to redis container")
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

// InsertRecipe stores r directly, bypassing the seeder. Tests use it for
// records the bundled dataset does not contain.
func InsertRecipe(t *testing.T, db *gorm.DB, r model.Recipe) model.Recipe {
	t.Helper()
	if r.Ingredients == nil {
		r.Ingredients = model.StringList{}
	}
	if r.Instructions == nil {
		r.Instructions = model.StringList{}
	}
	require.NoError(t, db.Create(&r).Error, "failed to insert recipe %q", r.Slug)
	return r
}

func prepare(t *testing.T, db *gorm.DB, seeded bool) {
	t.Helper()
	ctx := context.Background()

	_, err := database.MigrateGorm(ctx, db)
	require.NoError(t, err, "failed to migrate test database")

	if seeded {
		_, err := seed.LoadAndRun(ctx, db, data.Recipes)
		require.NoError(t, err, "failed to seed test database")
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
}

func terminateOnCleanup(t *testing.T, container testcontainers.Container) {
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})
}
