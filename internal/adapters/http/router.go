package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geofence/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
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

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness, no timeout
	app.Get("/v1/health", HealthHandler())
	app.Get("/v1/ready", ReadyHandler(deps))

	limit := deps.requestTimeout()
	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, limit)
	}

	v1 := app.Group("/v1")
	v1.Post("/geofences", withTimeout(RegisterGeofenceHandler(deps)))
	v1.Get("/geofences", withTimeout(ListGeofencesHandler(deps)))
	v1.Post("/geofences/check", withTimeout(CheckLocationHandler(deps)))
	v1.Get("/incidents", withTimeout(ListIncidentsHandler(deps)))

	// Unversioned routes of the first revision, kept for existing mobile clients.
	legacy := func(successor string, h fiber.Handler) fiber.Handler {
		return Deprecated(DeprecatedRoute{SunsetDate: legacySunset, Alternative: successor}, withTimeout(h))
	}
	app.Post("/geofences", legacy("/v1/geofences", LegacyRegisterGeofenceHandler(deps)))
	app.Get("/geofences", legacy("/v1/geofences", LegacyListGeofencesHandler(deps)))
	app.Post("/check_location", legacy("/v1/geofences/check", CheckLocationHandler(deps)))
	app.Get("/incidents", legacy("/v1/incidents", ListIncidentsHandler(deps)))

	// GraphQL
	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket relay of geofence events
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
