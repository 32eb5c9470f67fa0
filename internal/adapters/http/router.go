package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/samirrijal/trailhub/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/trackers", timeout.NewWithContext(ListTrackersHandler(deps), 15*time.Second))
	v1.Get("/trackers/nearby", timeout.NewWithContext(NearbyTrackersHandler(deps), 15*time.Second))
	v1.Get("/trackers/:id", timeout.NewWithContext(GetTrackerHandler(deps), 15*time.Second))
	v1.Get("/trackers/:id/trails", timeout.NewWithContext(TrackerTrailsHandler(deps), 15*time.Second))
	v1.Post("/trackers/:id/trails", timeout.NewWithContext(StartTrailHandler(deps), 15*time.Second))
	v1.Get("/trackers/:id/fixes/latest", timeout.NewWithContext(TrackerLatestFixHandler(deps), 15*time.Second))
	v1.Post("/trackers/:id/fixes", timeout.NewWithContext(IngestFixHandler(deps), 15*time.Second))
	v1.Get("/trackers/:id/geofence-events", timeout.NewWithContext(GeofenceEventsHandler(deps), 15*time.Second))
	v1.Get("/trails/:id", timeout.NewWithContext(GetTrailHandler(deps), 15*time.Second))
	v1.Get("/trails/:id/bounds", timeout.NewWithContext(TrailBoundsHandler(deps), 15*time.Second))
	v1.Get("/trails/:id/stats", timeout.NewWithContext(TrailStatsHandler(deps), 15*time.Second))
	v1.Get("/trails/:id/fixes", timeout.NewWithContext(TrailFixesHandler(deps), 15*time.Second))
	v1.Post("/trails/:id/close", timeout.NewWithContext(CloseTrailHandler(deps), 15*time.Second))
	v1.Get("/regions", timeout.NewWithContext(ListRegionsHandler(deps), 15*time.Second))
	v1.Get("/regions/:slug", timeout.NewWithContext(GetRegionHandler(deps), 15*time.Second))
	v1.Put("/regions/:slug", timeout.NewWithContext(SaveRegionHandler(deps), 15*time.Second))
	v1.Delete("/regions/:slug", timeout.NewWithContext(DeleteRegionHandler(deps), 15*time.Second))
	v1.Get("/regions/:slug/trails", timeout.NewWithContext(RegionTrailsHandler(deps), 15*time.Second))
	v1.Get("/feeds/status", timeout.NewWithContext(FeedStatsHandler(deps), 15*time.Second))

	// Deprecated alias for the bounds endpoint
	v1.Get("/trails/:id/bbox",
		DeprecationMiddleware("/v1/trails/{id}/bounds"),
		timeout.NewWithContext(TrailBoundsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
