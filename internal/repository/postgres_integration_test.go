//go:build integration

package repository

import (
	"context"
	"testing"

	"tokyo-valuation-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func TestRepository_ScoreTableRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	// Idempotent.
	require.NoError(t, repo.EnsureSchema(ctx))

	n, err := repo.ReplaceTownScores(ctx, []models.TownScore{
		{LocationKey: "新宿区西新宿", Score: 1000000},
		{LocationKey: "港区赤坂", Score: 1800000.5},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := repo.CountTownScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	table, err := repo.LoadScoreTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LocationScoreTable{"新宿区西新宿": 1000000, "港区赤坂": 1800000.5}, table)

	// Replacing drops previous rows.
	_, err = repo.ReplaceTownScores(ctx, []models.TownScore{{LocationKey: "千代田区丸の内", Score: 2500000}})
	require.NoError(t, err)

	table, err = repo.LoadScoreTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LocationScoreTable{"千代田区丸の内": 2500000}, table)
}

func TestRepository_ReplaceTownScores_FailureKeepsRows(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	_, err := repo.ReplaceTownScores(ctx, []models.TownScore{
		{LocationKey: "新宿区西新宿", Score: 1000000},
		{LocationKey: "港区赤坂", Score: 1800000},
	})
	require.NoError(t, err)

	// A duplicate primary key makes the copy fail after the truncate.
	n, err := repo.ReplaceTownScores(ctx, []models.TownScore{
		{LocationKey: "千代田区丸の内", Score: 2500000},
		{LocationKey: "千代田区丸の内", Score: 2600000},
	})
	require.Error(t, err)
	assert.Equal(t, int64(0), n)

	table, err := repo.LoadScoreTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LocationScoreTable{"新宿区西新宿": 1000000, "港区赤坂": 1800000}, table)
}
