// Package api serves chat sessions over HTTP.
package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/elee1766/medassist/src/chat"
)

// Options configures the HTTP front end.
type Options struct {
	Service *chat.Service
	// AllowOrigins is passed to the CORS middleware; empty allows any origin.
	AllowOrigins string
	AppName      string
	Logger       *slog.Logger
}

// New builds the fiber app with all routes registered.
func New(opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	appName := opts.AppName
	if appName == "" {
		appName = "medassist"
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	allowOrigins := opts.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	Register(app, NewHandler(opts.Service, logger))
	return app
}

// Register wires the routes onto app.
func Register(app *fiber.App, h *Handler) {
	api := app.Group("/api")

	api.Get("/health", h.Health)
	api.Post("/chat", h.Chat)
	api.Post("/reset", h.Reset)
	api.Post("/save", h.Save)
}

func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return writeError(c, code, err.Error())
	}
}
