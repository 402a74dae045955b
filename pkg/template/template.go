// Package template performs placeholder substitution for dynamic step
// configuration. Any string config field containing {{fieldName}} is replaced
// with the stringified current value of fieldName from the execution context;
// unresolved placeholders substitute to the empty string.
package template

import (
	"regexp"
	"strings"

	"github.com/flowline/flowline/pkg/models"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// ResolveConfig deep-copies a step config and substitutes placeholders in
// every string value, including strings nested in maps and slices. The
// original config is never mutated.
func ResolveConfig(config map[string]any, executionCtx *models.ExecutionContext) map[string]any {
	if config == nil {
		return nil
	}

	resolved := make(map[string]any, len(config))
	for key, value := range config {
		resolved[key] = resolveValue(value, executionCtx)
	}

	return resolved
}

// Render substitutes placeholders in a single string.
func Render(input string, executionCtx *models.ExecutionContext) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		field := placeholderPattern.FindStringSubmatch(match)[1]

		return executionCtx.StringValue(field)
	})
}

func resolveValue(value any, executionCtx *models.ExecutionContext) any {
	switch v := value.(type) {
	case string:
		return Render(v, executionCtx)
	case map[string]any:
		resolved := make(map[string]any, len(v))
		for key, nested := range v {
			resolved[key] = resolveValue(nested, executionCtx)
		}

		return resolved
	case []any:
		resolved := make([]any, len(v))
		for i, nested := range v {
			resolved[i] = resolveValue(nested, executionCtx)
		}

		return resolved
	default:
		return value
	}
}
