package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var postgresC = &shared{name: "Postgres"}

// GetPostgresDSN returns a DSN for a shared Postgres container.
//
// The readiness check opens a connection with the "pgx" database/sql
// driver, so the calling test binary must import
// github.com/jackc/pgx/v5/stdlib.
func GetPostgresDSN(t *testing.T) string {
	t.Helper()

	return postgresC.get(t, func(ctx context.Context) (testcontainers.Container, string, error) {
		c, err := testcontainers.Run(
			ctx, "postgres:16",
			testcontainers.WithExposedPorts("5432/tcp"),
			testcontainers.WithWaitStrategy(
				wait.ForAll(
					wait.ForListeningPort("5432/tcp"),
					wait.ForLog("ready to accept connections"),
					// Verify SQL connectivity through the mapped port.
					wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
						return fmt.Sprintf("postgres://exclusive:exclusive@%s:%s/exclusive_test?sslmode=disable", host, port.Port())
					}).WithQuery("SELECT 1"),
				).WithDeadline(2*time.Minute),
			),
			testcontainers.WithEnv(map[string]string{
				"POSTGRES_USER":     "exclusive",
				"POSTGRES_PASSWORD": "exclusive",
				"POSTGRES_DB":       "exclusive_test",
			}),
		)
		if err != nil {
			return c, "", err
		}
		endpoint, err := c.Endpoint(ctx, "")
		if err != nil {
			return c, "", err
		}
		return c, fmt.Sprintf("postgres://exclusive:exclusive@%s/exclusive_test?sslmode=disable", endpoint), nil
	})
}
