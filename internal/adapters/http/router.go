package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geopin/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting per IP, shared across replicas when Valkey is configured
	maxReq, window := deps.RateLimit.Max, deps.RateLimit.Window
	if maxReq <= 0 {
		maxReq = 120
	}
	if window <= 0 {
		window = time.Minute
	}
	app.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: window,
		Storage:    deps.limiterStorage(),
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	with := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	// Stateless conversions
	v1.Get("/convert/dms-to-dd", with(DMSToDDHandler(deps)))
	v1.Get("/convert/dd-to-dms", with(DDToDMSHandler(deps)))
	v1.Get("/convert/normalize", with(NormalizeHandler(deps)))

	// Map sessions
	v1.Post("/sessions", with(CreateSessionHandler(deps)))
	v1.Get("/sessions/:id", with(GetSessionHandler(deps)))
	v1.Delete("/sessions/:id", with(EndSessionHandler(deps)))
	v1.Put("/sessions/:id/modal", with(SetModalHandler(deps)))
	v1.Put("/sessions/:id/mode", with(SetModeHandler(deps)))
	v1.Patch("/sessions/:id/form", with(PatchFormHandler(deps)))
	v1.Post("/sessions/:id/form/convert", with(ConvertFormHandler(deps)))
	v1.Post("/sessions/:id/form/clear", with(ClearFormHandler(deps)))
	v1.Post("/sessions/:id/click", with(ClickHandler(deps)))

	// Markers
	v1.Get("/sessions/:id/markers.geojson", with(MarkersGeoJSONHandler(deps)))
	v1.Post("/sessions/:id/markers", with(SubmitMarkerHandler(deps)))
	v1.Get("/sessions/:id/markers", with(ListMarkersHandler(deps)))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket map client
	if deps.Frames != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if !websocket.IsWebSocketUpgrade(c) {
				return fiber.ErrUpgradeRequired
			}
			id := c.Query("session")
			if id == "" {
				return errBadRequest(c, "session query parameter is required")
			}
			if _, err := deps.Sessions.Get(c.UserContext(), id); err != nil {
				return errFromDomain(c, err)
			}
			c.Locals("session", id)
			return c.Next()
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps)))
	}
}
