// Package app provides HTTP handlers for the contacts service.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nourabuild/contacts-service/internal/sdk/middleware"
)

// ----------------------------------------------------------------------------
// Route Registration
// ----------------------------------------------------------------------------

func (a *App) RegisterRoutes() *gin.Engine {
	router := gin.New()

	// Global middleware chain
	router.Use(gin.Recovery())                     // Panic recovery
	router.Use(middleware.Logger())                // Custom slog logger
	router.Use(middleware.CORS(a.cfg.CORSOrigins)) // CORS support
	router.Use(a.metrics.Middleware())             // Request counters and latency

	router.GET("/", a.HandleRoot)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// Health check route (public)
		api.GET("/healthchecker", a.HandleHealthChecker)

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", a.HandleSignup)
			auth.POST("/login", a.HandleLogin)
			auth.GET("/refresh_token", a.HandleRefreshToken)
			auth.GET("/confirmed_email/:token", a.HandleConfirmedEmail)
			auth.POST("/request_email", a.HandleRequestEmail)
		}

		// Contact routes (protected - requires authentication, rate limited)
		contacts := api.Group("/contacts")
		contacts.Use(middleware.Authenticate(a.tokens, a.db), middleware.RateLimit(a.limiter))
		{
			contacts.GET("", a.HandleListContacts)
			contacts.POST("", a.HandleCreateContact)
			contacts.GET("/birthday", a.HandleUpcomingBirthdays)
			contacts.GET("/search/:email", a.HandleSearchByEmail)
			contacts.GET("/search/first_name/:name", a.HandleSearchByFirstName)
			contacts.GET("/search/last_name/:name", a.HandleSearchByLastName)
			contacts.GET("/:id", a.HandleGetContact)
			contacts.PUT("/:id", a.HandleUpdateContact)
			contacts.DELETE("/:id", a.HandleDeleteContact)
		}

		// User routes (protected - requires authentication)
		users := api.Group("/users")
		users.Use(middleware.Authenticate(a.tokens, a.db))
		{
			users.GET("/me", a.HandleUsersMe)
			users.PATCH("/avatar", middleware.RateLimit(a.limiter), a.HandleUpdateAvatar)
		}
	}

	return router
}
