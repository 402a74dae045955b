// Package main provides the Flowline API server implementation.
package main

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/flowline/flowline/pkg/registry"
	"github.com/flowline/flowline/pkg/web"
	"github.com/flowline/flowline/pkg/workflow"
)

type API struct {
	logger     *slog.Logger
	repository *workflow.Repository
	registry   *registry.Registry
	timeout    time.Duration
}

func NewAPI(
	logger *slog.Logger,
	repository *workflow.Repository,
	registry *registry.Registry,
	timeout time.Duration,
) *API {
	return &API{
		logger:     logger,
		repository: repository,
		registry:   registry,
		timeout:    timeout,
	}
}

func (a *API) App() *fiber.App {
	executor := workflow.NewExecutor(a.repository, a.registry, a.logger,
		workflow.WithTimeout(a.timeout))
	dispatcher := workflow.NewDispatcher(a.repository, executor, a.logger)

	handlers := web.NewAPIHandlers(a.repository, executor, dispatcher, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowline API")
	})

	handlers.RegisterRoutes(app)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
