package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgutil "github.com/andresv02/loan-management-system/pkg/postgres"
)

const postgresImage = "postgres:16-alpine"

// LendingDB is a throwaway database with the lending schema applied.
type LendingDB struct {
	DSN    string
	Pool   *pgxpool.Pool
	Schema pgutil.SchemaVersion
}

// StartLendingDB runs PostgreSQL in a container, applies the migrations
// in migrationsDir and registers teardown on t.
func StartLendingDB(ctx context.Context, t *testing.T, migrationsDir string) *LendingDB {
	t.Helper()

	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("lending"),
		postgres.WithUsername("lending"),
		postgres.WithPassword("lending"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45*time.Second),
		),
	)
	require.NoError(t, err, "start %s", postgresImage)
	t.Cleanup(func() { terminate(t, ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	schema, err := pgutil.RunMigrations(dsn, migrationsDir)
	require.NoError(t, err, "migrate %s", migrationsDir)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	return &LendingDB{DSN: dsn, Pool: pool, Schema: schema}
}

func terminate(t *testing.T, ctr testcontainers.Container) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ctr.Terminate(ctx); err != nil {
		t.Logf("terminate container: %v", err)
	}
}
