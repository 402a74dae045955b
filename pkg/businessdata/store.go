// Package businessdata defines the virtual-database collaborator the
// database action writes to. Target schemas are user-defined, so records
// carry an arbitrary set of named fields.
package businessdata

import (
	"context"
	"errors"
)

var (
	// ErrDatabaseNotFound indicates the target virtual database does not exist.
	ErrDatabaseNotFound = errors.New("business database not found")

	// ErrRecordNotFound indicates the target record does not exist.
	ErrRecordNotFound = errors.New("business record not found")
)

// Store is the boundary contract with the virtual-database subsystem.
type Store interface {
	CreateRecord(ctx context.Context, databaseID string, fields map[string]any) (string, error)
	UpdateRecord(ctx context.Context, databaseID, recordID string, fields map[string]any) error
	DeleteRecord(ctx context.Context, databaseID, recordID string) error
}
