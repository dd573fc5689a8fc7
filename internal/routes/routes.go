package routes

import (
	"time"

	"github.com/forkcast/forkcast-backend/internal/config"
	"github.com/forkcast/forkcast-backend/internal/handlers"
	"github.com/forkcast/forkcast-backend/internal/metrics"
	"github.com/forkcast/forkcast-backend/internal/middleware"
	"github.com/forkcast/forkcast-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	attestService *services.AttestService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	placesHandler *handlers.PlacesHandler,
	suggestHandler *handlers.SuggestHandler,
	attestHandler *handlers.AttestHandler,
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

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Public auth routes get a stricter rate limit: 10 req/min per IP
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
	auth.Post("/password-reset", authHandler.RequestPasswordReset)
	auth.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// Device attestation mint needs no user session
	api.Post("/attest", attestHandler.Mint)

	// Protected auth operations
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)
	api.Post("/auth/verify-email", middleware.JWTProtected(cfg), authHandler.SendVerification)
	api.Post("/auth/verify-email/check", middleware.JWTProtected(cfg), authHandler.CheckVerification)

	// Profile, onboarding flag, favorites, friends
	me := api.Group("/me", middleware.JWTProtected(cfg))
	me.Get("/", userHandler.Profile)
	me.Patch("/", userHandler.UpdateProfile)
	me.Get("/favorites", userHandler.ListFavorites)
	me.Post("/favorites", userHandler.AddFavorite)
	me.Delete("/favorites/:place_id", userHandler.RemoveFavorite)
	me.Get("/friends", userHandler.ListFriends)
	me.Post("/friends", userHandler.AddFriend)
	me.Delete("/friends/:friend_id", userHandler.RemoveFriend)

	// Places proxy
	places := api.Group("/places", middleware.JWTProtected(cfg))
	places.Get("/search", placesHandler.Search)
	places.Get("/directions", placesHandler.Directions)
	places.Get("/:place_id", placesHandler.Details)

	// Suggestions need both a user session and a device attestation token.
	suggest := api.Group("/suggestions", middleware.JWTProtected(cfg), middleware.AttestRequired(attestService))
	suggest.Post("/", suggestHandler.Suggest)
	suggest.Get("/history", suggestHandler.History)

	// Admin
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/health", healthHandler.Check)
}
