package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer is a throwaway PostgreSQL server
type PostgresContainer struct {
	Container   testcontainers.Container
	DatabaseURL string
}

// StartPostgres starts a PostgreSQL testcontainer and returns its
// connection string for the host (not the container network).
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("rolejoin_test"),
		tcpostgres.WithUsername("rolejoin"),
		tcpostgres.WithPassword("rolejoin"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &PostgresContainer{
		Container:   pgContainer,
		DatabaseURL: fmt.Sprintf("postgres://rolejoin:rolejoin@%s:%s/rolejoin_test?sslmode=disable", host, port.Port()),
	}, nil
}

// Close terminates the container
func (p *PostgresContainer) Close(ctx context.Context) {
	if p.Container != nil {
		_ = p.Container.Terminate(ctx)
	}
}
