package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/flowline/flowline/pkg/cmd"
	"github.com/flowline/flowline/pkg/config"
	"github.com/flowline/flowline/pkg/log"
	"github.com/flowline/flowline/pkg/workflow"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "flowline-api",
		Usage:                 "Create, manage and run workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "workflows-file",
				Usage:   "Optional YAML file of workflow definitions to import on startup",
				Sources: cli.EnvVars("WORKFLOWS_FILE"),
			},
			&cli.DurationFlag{
				Name:    "execution-timeout",
				Usage:   "Upper bound for a single workflow run (0 = unlimited)",
				Value:   0,
				Sources: cli.EnvVars("EXECUTION_TIMEOUT"),
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

			logger.InfoContext(ctx, "Initializing Flowline API")

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

			if workflowsFile := command.String("workflows-file"); workflowsFile != "" {
				imported, err := config.ImportWorkflows(ctx, repository, workflowsFile)
				if err != nil {
					return err
				}

				logger.InfoContext(ctx, "Imported workflows from file",
					"file", workflowsFile,
					"count", len(imported),
				)
			}

			api := NewAPI(
				logger,
				repository,
				registry,
				command.Duration("execution-timeout"),
			)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
