// Package condition implements the condition step executor. It evaluates a
// comparison against the execution context and contributes the boolean
// result; the pipeline does not branch on it.
package condition

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/flowline/flowline/pkg/models"
)

const (
	OperatorEquals      = "equals"
	OperatorNotEquals   = "not_equals"
	OperatorContains    = "contains"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
)

type Action struct {
	Field    string
	Operator string
	Value    any
}

func NewAction(config map[string]any) *Action {
	field, _ := config["field"].(string)
	operator, _ := config["operator"].(string)

	return &Action{
		Field:    field,
		Operator: operator,
		Value:    config["value"],
	}
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "condition", "field", a.Field, "operator", a.Operator)

	if a.Field == "" {
		return nil, fmt.Errorf("condition action requires a 'field'")
	}

	output := map[string]any{
		"field":    a.Field,
		"operator": a.Operator,
		"result":   false,
	}

	actual, ok := executionCtx.Lookup(a.Field)
	if !ok {
		// An absent field evaluates to false, not a hard failure.
		logger.InfoContext(ctx, "Condition field absent from context, evaluating to false")

		return output, nil
	}

	result, err := evaluate(actual, a.Operator, a.Value)
	if err != nil {
		return nil, err
	}

	output["result"] = result

	logger.InfoContext(ctx, "Condition evaluated", "result", result)

	return output, nil
}

func evaluate(actual any, operator string, expected any) (bool, error) {
	switch operator {
	case OperatorEquals:
		return compareEqual(actual, expected), nil
	case OperatorNotEquals:
		return !compareEqual(actual, expected), nil
	case OperatorContains:
		return strings.Contains(stringify(actual), stringify(expected)), nil
	case OperatorGreaterThan, OperatorLessThan:
		left, err := toFloat(actual)
		if err != nil {
			return false, fmt.Errorf("condition field value is not numeric: %w", err)
		}

		right, err := toFloat(expected)
		if err != nil {
			return false, fmt.Errorf("condition comparison value is not numeric: %w", err)
		}

		if operator == OperatorGreaterThan {
			return left > right, nil
		}

		return left < right, nil
	default:
		return false, fmt.Errorf("unknown condition operator '%s'", operator)
	}
}

// compareEqual compares numerically when both sides parse as numbers, so
// that 5 equals "5.0", and falls back to string comparison otherwise.
func compareEqual(actual, expected any) bool {
	left, errL := toFloat(actual)
	right, errR := toFloat(expected)

	if errL == nil && errR == nil {
		return left == right
	}

	return stringify(actual) == stringify(expected)
}

func stringify(value any) string {
	if value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", value, value)
	}
}
