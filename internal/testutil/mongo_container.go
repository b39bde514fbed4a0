package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var mongoC = &shared{name: "MongoDB"}

// GetMongoURI returns a mongodb:// URI for a shared MongoDB container.
func GetMongoURI(t *testing.T) string {
	t.Helper()

	return mongoC.get(t, func(ctx context.Context) (testcontainers.Container, string, error) {
		c, err := testcontainers.Run(
			ctx, "mongo:7",
			testcontainers.WithExposedPorts("27017/tcp"),
			testcontainers.WithWaitStrategy(
				wait.ForListeningPort("27017/tcp").WithStartupTimeout(2*time.Minute),
			),
		)
		if err != nil {
			return c, "", err
		}

		host, err := c.Host(ctx)
		if err != nil {
			return c, "", err
		}
		port, err := c.MappedPort(ctx, "27017/tcp")
		if err != nil {
			return c, "", err
		}

		// Force IPv4 loopback to avoid [::1]:port problems.
		if host == "" || host == "localhost" || host == "::1" {
			host = "127.0.0.1"
		}
		return c, fmt.Sprintf("mongodb://%s:%s", host, port.Port()), nil
	})
}
