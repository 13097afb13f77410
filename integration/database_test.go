//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const fixtureReport = "core/testdata/cover.out"

// TestCovtreeWithMySQL tests the covtree CLI with a MySQL result store.
func TestCovtreeWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "covtree",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/covtree?parseTime=true&multiStatements=true", host, port.Port())
	runStoreLifecycle(t, "mysql", connStr)
}

// TestCovtreeWithPostgres tests the covtree CLI with a PostgreSQL result store.
func TestCovtreeWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runStoreLifecycle(t, "postgresql", connStr)
}

// TestCovtreeWithSQLite runs the same lifecycle against a temporary SQLite file.
func TestCovtreeWithSQLite(t *testing.T) {
	runStoreLifecycle(t, "sqlite", filepath.Join(t.TempDir(), "covtree_results.db"))
}

// runStoreLifecycle migrates, fills, inspects, exports and clears a store.
func runStoreLifecycle(t *testing.T, backend, connStr string) {
	t.Setenv("COVTREE_STORE_BACKEND", backend)
	t.Setenv("COVTREE_STORE_DB_CONNECT", connStr)

	_, err := runCovtreeCommand(t, "store", "clear")
	require.NoError(t, err)

	out, err := runCovtreeCommand(t, "store", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "version")

	for _, args := range [][]string{
		{"summary", fixtureReport},
		{"files", "--limit", "2", fixtureReport},
		{"packages", fixtureReport},
	} {
		_, err = runCovtreeCommand(t, args...)
		require.NoError(t, err, "covtree %v", args)
	}

	out, err = runCovtreeCommand(t, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 3")

	exportBase := filepath.Join(t.TempDir(), "covtree-data")
	_, err = runCovtreeCommand(t, "store", "export", "--output-file", exportBase)
	require.NoError(t, err)
	for _, suffix := range []string{".runs.parquet", ".node_metrics.parquet"} {
		info, err := os.Stat(exportBase + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err = runCovtreeCommand(t, "store", "clear")
	require.NoError(t, err)
}
