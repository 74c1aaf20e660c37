package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sqlsage/sqlsage-backend/internal/config"
	"github.com/sqlsage/sqlsage-backend/internal/handlers"
	"github.com/sqlsage/sqlsage-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	analyzeHandler *handlers.AnalyzeHandler,
	nl2sqlHandler *handlers.NL2SQLHandler,
	historyHandler *handlers.HistoryHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	usersHandler *handlers.UsersHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limiter: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Session routes (JWT required)
	protected := api.Group("", middleware.JWTProtected(cfg))
	protected.Post("/analyze", analyzeHandler.Analyze)
	protected.Get("/quota", analyzeHandler.Quota)
	protected.Post("/format", analyzeHandler.Format)
	protected.Post("/compare", analyzeHandler.Compare)
	protected.Post("/plan", analyzeHandler.Plan)

	protected.Post("/nl2sql", nl2sqlHandler.Generate)
	protected.Get("/schema", nl2sqlHandler.GetSchema)
	protected.Put("/schema", nl2sqlHandler.SaveSchema)
	protected.Delete("/schema", nl2sqlHandler.DeleteSchema)
	protected.Get("/schema/samples", nl2sqlHandler.Samples)

	protected.Post("/history", historyHandler.Save)
	protected.Get("/history", historyHandler.List)
	protected.Post("/history/:id/favorite", historyHandler.ToggleFavorite)
	protected.Put("/history/:id/name", historyHandler.Rename)
	protected.Delete("/history/:id", historyHandler.Delete)

	// Admin dashboard (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/analytics/summary", analyticsHandler.Summary)
	admin.Get("/analytics/trend", analyticsHandler.Trend)
	admin.Get("/analytics/errors", analyticsHandler.Errors)

	admin.Get("/users", usersHandler.List)
	admin.Put("/users/:id/role", usersHandler.GrantAdmin)
	admin.Put("/users/:id/password", usersHandler.ResetPassword)
	admin.Delete("/users/:id", usersHandler.Delete)
}
