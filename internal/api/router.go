// Package api serves the planner over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/session"
)

type Options struct {
	APIKey string
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// SlackEvents handles /slack/events; nil disables the endpoint.
	SlackEvents http.HandlerFunc
	// AccessLog enables the fiber request logger.
	AccessLog bool
	Logger    *zap.Logger
}

// NewApp wires the routes for planner.
func NewApp(planner *session.Planner, opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		// Generation calls routinely take tens of seconds.
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			log.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	if opts.SlackEvents != nil {
		app.Post("/slack/events", adaptor.HTTPHandlerFunc(opts.SlackEvents))
	}

	h := &Handler{planner: planner, logger: log}

	api := app.Group("/api")
	api.Use(APIKeyMiddleware(opts.APIKey))

	api.Get("/options", h.Options)
	api.Get("/persona", h.GetPersona)
	api.Put("/persona", h.UpdatePersona)
	api.Post("/persona/audience", h.SuggestAudience)
	api.Post("/persona/pillars", h.SuggestPillars)
	api.Post("/persona/pillars/accept", h.AcceptPillars)
	api.Post("/persona/voice/analyze", h.AnalyzeVoice)
	api.Put("/persona/voice", h.SaveVoiceGuide)

	api.Get("/posts", h.ListPosts)
	api.Get("/posts/upcoming", h.UpcomingPosts)
	api.Post("/posts/generate", h.GeneratePost)
	api.Post("/posts/:id/refine", h.RefinePost)
	api.Post("/posts/:id/media", h.GenerateMedia)
	api.Post("/posts/:id/schedule", h.SchedulePost)

	api.Post("/schedule/propose", h.ProposeSchedule)
	api.Post("/schedule/accept", h.AcceptProposal)

	api.Get("/chat", h.ChatHistory)
	api.Post("/chat", h.ChatTurn)

	api.Get("/analytics", h.GetAnalytics)
	api.Put("/analytics", h.SetAnalytics)

	return app
}
