//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sp3dr4/wren/internal/domain"
	"github.com/sp3dr4/wren/migrations"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("wren_test"),
		postgresContainer.WithUsername("test"),
		postgresContainer.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestPostgresRepository_Integration(t *testing.T) {
	connStr := startPostgres(t)

	for _, driver := range []string{DriverPQ, DriverPGX} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()

			db, err := sqlx.Connect(driver, connStr)
			require.NoError(t, err)
			require.NoError(t, migrations.Up(db.DB, migrations.DialectPostgres))
			_, err = db.Exec("TRUNCATE TABLE urls RESTART IDENTITY CASCADE")
			require.NoError(t, err)

			repo := NewURLRepository(db)
			t.Cleanup(func() { _ = repo.Close() })

			expires := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
			url, err := domain.NewURL("int12345", "https://example.com", &expires)
			require.NoError(t, err)

			created, err := repo.Create(ctx, url)
			require.NoError(t, err)
			assert.Equal(t, int64(1), created.ID)

			_, err = repo.Create(ctx, url)
			assert.ErrorIs(t, err, domain.ErrShortCodeExists)

			require.NoError(t, repo.IncrementClicks(ctx, created.ID))
			assert.ErrorIs(t, repo.IncrementClicks(ctx, 999), domain.ErrURLNotFound)

			found, err := repo.FindByShortCode(ctx, "int12345")
			require.NoError(t, err)
			assert.Equal(t, int64(1), found.Clicks)
			require.NotNil(t, found.ExpiresAt)
			assert.True(t, expires.Equal(*found.ExpiresAt))

			_, err = repo.FindByShortCode(ctx, "missing0")
			assert.ErrorIs(t, err, domain.ErrURLNotFound)

			assert.NoError(t, repo.HealthCheck(ctx))
		})
	}
}
