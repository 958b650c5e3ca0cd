package http

import (
	"time"

	"cv-builder/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type RouterConfig struct {
	AppName         string
	Production      bool
	AccessLog       bool
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(h *Handler, cfg RouterConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return h.fail(c, err, nil)
		},
	})

	if cfg.AccessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{AllowOrigins: "*"}))
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.Production}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/events"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))

	RegisterRoutes(app, h, rateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow))
	return app
}

func RegisterRoutes(app *fiber.App, h *Handler, aiLimiter fiber.Handler) {
	api := app.Group("/api")
	api.Get("/state", h.GetState)
	api.Post("/actions", h.Dispatch)
	api.Post("/state/load", h.LoadState)
	api.Post("/state/clear", h.ClearState)
	api.Get("/events", h.Events)
	api.Get("/exports", h.ListExports)

	// only generation requests are rate limited; task polling is not
	gen := api.Group("/ai")
	gen.Post("/summary", aiLimiter, h.GenerateSummary)
	gen.Post("/experience/:id", aiLimiter, h.GenerateExperience)
	gen.Post("/skills", aiLimiter, h.SuggestSkills)
	gen.Get("/tasks/:id", h.GetTask)

	app.Get("/preview", h.Preview)
	app.Get("/export/print", h.Print)
	app.Get("/export/pdf", h.ExportPDF)
	app.Get("/export/png", h.ExportImage(domain.FormatPNG))
	app.Get("/export/jpeg", h.ExportImage(domain.FormatJPEG))
}

func rateLimiter(max int, expiration time.Duration) fiber.Handler {
	if max == 0 {
		max = 20
	}
	if expiration == 0 {
		expiration = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(errorResponse{
				Message: "Demasiadas solicitudes. Espera un momento e intenta nuevamente.",
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
