package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/dongne/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
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

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness run without the request timeout.
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	d := deps.requestTimeout()
	v1 := app.Group("/v1")
	v1.Get("/listings", timeout.NewWithContext(ListListingsHandler(deps), d))
	v1.Post("/listings", timeout.NewWithContext(CreateListingHandler(deps), d))
	// Registered before /listings/:id so "nearby" is not taken for an ID.
	v1.Get("/listings/nearby", timeout.NewWithContext(NearbyListingsHandler(deps), d))
	v1.Get("/listings/:id", timeout.NewWithContext(GetListingHandler(deps), d))
	v1.Patch("/listings/:id/status", timeout.NewWithContext(UpdateListingStatusHandler(deps), d))
	v1.Delete("/listings/:id", timeout.NewWithContext(DeleteListingHandler(deps), d))
	v1.Get("/sellers/:id/listings", timeout.NewWithContext(SellerListingsHandler(deps), d))
	v1.Get("/categories", ListCategoriesHandler())
	v1.Get("/regions", ListRegionsHandler(deps))
	v1.Get("/regions/resolve", ResolveRegionHandler(deps))

	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), d))

	SetupDocs(app)

	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
