// Package delay implements the delay step executor, a timed wait that
// respects context cancellation so one slow run never stalls others.
package delay

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/flowline/flowline/pkg/models"
)

type Action struct {
	Duration time.Duration
}

func NewAction(config map[string]any) (*Action, error) {
	duration, err := parseDuration(config["duration"])
	if err != nil {
		return nil, err
	}

	return &Action{Duration: duration}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "delay", "duration", a.Duration.String())

	logger.InfoContext(ctx, "Delaying execution")

	timer := time.NewTimer(a.Duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("delay interrupted: %w", ctx.Err())
	case <-timer.C:
	}

	// Pass-through: a delay contributes nothing to the context.
	return map[string]any{}, nil
}

// isoDurationPattern accepts the ISO-8601 time forms the dashboard emits,
// e.g. PT90S, PT5M, PT1H30M.
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// parseDuration accepts a bare number of seconds, a Go duration string
// ("90s", "1h30m"), or an ISO-8601 duration ("PT90S").
func parseDuration(value any) (time.Duration, error) {
	var duration time.Duration

	switch v := value.(type) {
	case float64:
		duration = time.Duration(v * float64(time.Second))
	case int:
		duration = time.Duration(v) * time.Second
	case int64:
		duration = time.Duration(v) * time.Second
	case string:
		parsed, err := parseDurationString(v)
		if err != nil {
			return 0, err
		}

		duration = parsed
	case nil:
		return 0, fmt.Errorf("delay action requires a 'duration'")
	default:
		return 0, fmt.Errorf("unsupported duration value %v (%T)", value, value)
	}

	if duration < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %s", duration)
	}

	return duration, nil
}

func parseDurationString(s string) (time.Duration, error) {
	if seconds, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	if match := isoDurationPattern.FindStringSubmatch(s); match != nil && s != "P" {
		days, _ := strconv.ParseFloat(zeroIfEmpty(match[1]), 64)
		hours, _ := strconv.ParseFloat(zeroIfEmpty(match[2]), 64)
		minutes, _ := strconv.ParseFloat(zeroIfEmpty(match[3]), 64)
		seconds, _ := strconv.ParseFloat(zeroIfEmpty(match[4]), 64)

		total := days*24*3600 + hours*3600 + minutes*60 + seconds

		return time.Duration(total * float64(time.Second)), nil
	}

	return 0, fmt.Errorf("unparseable duration %q", s)
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}

	return s
}
