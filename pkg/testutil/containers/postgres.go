//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	platformpg "ascent/internal/platform/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// engine schema applied.
type PostgresContainer struct {
	DB  *sql.DB
	URI string

	container *tcpostgres.PostgresContainer
}

// NewPostgresContainer starts PostgreSQL and runs the engine migrations.
// The container is terminated through t.Cleanup.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("ascent"),
		tcpostgres.WithUsername("ascent"),
		tcpostgres.WithPassword("ascent"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	uri, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", uri)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := waitReady(ctx, db); err != nil {
		t.Fatalf("postgres not ready: %v", err)
	}

	if err := platformpg.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return &PostgresContainer{DB: db, URI: uri, container: container}
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func waitReady(ctx context.Context, db *sql.DB) error {
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		if err := db.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("database did not become ready")
}
