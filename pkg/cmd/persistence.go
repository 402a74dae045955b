package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flowline/flowline/pkg/persistence"
	"github.com/flowline/flowline/pkg/persistence/file"
	"github.com/flowline/flowline/pkg/persistence/memory"
	"github.com/flowline/flowline/pkg/persistence/postgresql"
	"github.com/flowline/flowline/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "memory", "postgres", "postgresql", "redis"}

// NewPersistence picks the storage adapter from the database URL scheme.
// Anything unrecognized falls back to the file adapter, treating the URL as
// a directory path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	provider := parsePersistenceProvider(databaseURL)

	switch provider {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	case "redis":
		return redis.NewPersistence(ctx, databaseURL)
	case "memory":
		return memory.NewPersistence(), nil
	case "file":
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	default:
		if databaseURL == "" {
			return nil, fmt.Errorf("database URL is required")
		}

		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return ""
}
