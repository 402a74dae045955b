package businessdata

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used for tests and single-node
// deployments without the virtual-database subsystem attached.
type MemoryStore struct {
	mu        sync.RWMutex
	databases map[string]map[string]map[string]any // databaseID -> recordID -> fields
}

func NewMemoryStore(databaseIDs ...string) *MemoryStore {
	databases := make(map[string]map[string]map[string]any, len(databaseIDs))
	for _, id := range databaseIDs {
		databases[id] = make(map[string]map[string]any)
	}

	return &MemoryStore{databases: databases}
}

// CreateDatabase registers a new virtual database id.
func (s *MemoryStore) CreateDatabase(databaseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.databases[databaseID]; !ok {
		s.databases[databaseID] = make(map[string]map[string]any)
	}
}

func (s *MemoryStore) CreateRecord(_ context.Context, databaseID string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.databases[databaseID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDatabaseNotFound, databaseID)
	}

	recordID := uuid.New().String()

	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	records[recordID] = copied

	return recordID, nil
}

func (s *MemoryStore) UpdateRecord(_ context.Context, databaseID, recordID string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.databases[databaseID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, databaseID)
	}

	record, ok := records[recordID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, recordID)
	}

	for k, v := range fields {
		record[k] = v
	}

	return nil
}

func (s *MemoryStore) DeleteRecord(_ context.Context, databaseID, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.databases[databaseID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, databaseID)
	}

	delete(records, recordID)

	return nil
}

// Record returns a stored record's fields, for tests and debugging.
func (s *MemoryStore) Record(databaseID, recordID string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.databases[databaseID]
	if !ok {
		return nil, false
	}

	record, ok := records[recordID]

	return record, ok
}
