package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/flowline/flowline/pkg/cmd"
	"github.com/flowline/flowline/pkg/log"
	"github.com/flowline/flowline/pkg/otelhelper"
	"github.com/flowline/flowline/pkg/workflow"
)

const defaultRefreshInterval = 30 * time.Second

func main() {
	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  "flowline-scheduler",
		Usage:                 "Run workflows with schedule triggers on their cron expressions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.DurationFlag{
				Name:    "refresh-interval",
				Usage:   "How often to reload workflow definitions",
				Value:   defaultRefreshInterval,
				Sources: cli.EnvVars("REFRESH_INTERVAL"),
			},
			&cli.DurationFlag{
				Name:    "execution-timeout",
				Usage:   "Upper bound for a single workflow run (0 = unlimited)",
				Value:   0,
				Sources: cli.EnvVars("EXECUTION_TIMEOUT"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OpenTelemetry traces for workflow runs",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Flowline Scheduler")

			registry := cmd.NewRegistry(logger, cmd.Collaborators{})

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			repository := workflow.NewRepository(persistence, registry)

			opts := []workflow.ExecutorOption{
				workflow.WithTimeout(command.Duration("execution-timeout")),
			}

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "flowline-scheduler")
				if err != nil {
					return err
				}

				opts = append(opts, workflow.WithTracer(tracer))
			}

			executor := workflow.NewExecutor(repository, registry, logger, opts...)

			scheduler := NewScheduler(repository, executor, logger, command.Duration("refresh-interval"))

			runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return scheduler.Run(runCtx)
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
