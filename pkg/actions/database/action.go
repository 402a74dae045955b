// Package database implements the database-write step executor, issuing
// create/update/delete calls against the virtual-database collaborator.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowline/flowline/pkg/businessdata"
	"github.com/flowline/flowline/pkg/models"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Mapping routes one context field into one target database field.
type Mapping struct {
	Source string
	Target string
}

type Action struct {
	DatabaseID string
	Operation  string
	RecordID   string
	Mappings   []Mapping

	store businessdata.Store
}

func NewAction(config map[string]any, store businessdata.Store) *Action {
	databaseID, _ := config["databaseId"].(string)
	operation, _ := config["action"].(string)
	recordID, _ := config["recordId"].(string)

	var mappings []Mapping

	if raw, ok := config["mappings"].([]any); ok {
		for _, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}

			source, _ := m["source"].(string)
			target, _ := m["target"].(string)
			mappings = append(mappings, Mapping{Source: source, Target: target})
		}
	}

	return &Action{
		DatabaseID: databaseID,
		Operation:  operation,
		RecordID:   recordID,
		Mappings:   mappings,
		store:      store,
	}
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "database", "database_id", a.DatabaseID, "operation", a.Operation)

	if a.DatabaseID == "" {
		return nil, errors.New("database action requires a 'databaseId'")
	}

	switch a.Operation {
	case OperationCreate, OperationUpdate, OperationDelete:
	default:
		return nil, fmt.Errorf("database action '%s' is not one of create, update, delete", a.Operation)
	}

	fields, err := a.resolveFields(&executionCtx)
	if err != nil {
		return nil, err
	}

	recordID := a.RecordID

	switch a.Operation {
	case OperationCreate:
		recordID, err = a.store.CreateRecord(ctx, a.DatabaseID, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to create record in database %s: %w", a.DatabaseID, err)
		}
	case OperationUpdate:
		if recordID == "" {
			return nil, errors.New("database update requires a 'recordId'")
		}

		if err := a.store.UpdateRecord(ctx, a.DatabaseID, recordID, fields); err != nil {
			return nil, fmt.Errorf("failed to update record %s in database %s: %w", recordID, a.DatabaseID, err)
		}
	case OperationDelete:
		if recordID == "" {
			return nil, errors.New("database delete requires a 'recordId'")
		}

		if err := a.store.DeleteRecord(ctx, a.DatabaseID, recordID); err != nil {
			return nil, fmt.Errorf("failed to delete record %s from database %s: %w", recordID, a.DatabaseID, err)
		}
	}

	logger.InfoContext(ctx, "Database write completed", "record_id", recordID)

	return map[string]any{
		"recordId":   recordID,
		"databaseId": a.DatabaseID,
		"action":     a.Operation,
	}, nil
}

// resolveFields builds the target record fields from the execution context.
// A mapping whose source field is absent from the context is a fault: the
// target schema expects a value the run cannot provide.
func (a *Action) resolveFields(executionCtx *models.ExecutionContext) (map[string]any, error) {
	fields := make(map[string]any, len(a.Mappings))

	for _, mapping := range a.Mappings {
		if mapping.Target == "" {
			return nil, fmt.Errorf("mapping for source %q is missing a target field", mapping.Source)
		}

		value, ok := executionCtx.Lookup(mapping.Source)
		if !ok {
			return nil, fmt.Errorf("missing value for target field %q: source field %q not in context", mapping.Target, mapping.Source)
		}

		fields[mapping.Target] = value
	}

	return fields, nil
}
