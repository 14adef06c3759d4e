// Package api assembles the gin engine and its routes.
package api

import (
	"time"

	"github.com/ekusa/ekusa-backend/internal/api/handlers"
	"github.com/ekusa/ekusa-backend/internal/api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Handlers    *handlers.Handlers
	Auth        middleware.TokenValidator
	WebSocket   gin.HandlerFunc
	Health      gin.HandlerFunc
	CORSOrigins []string
	// SecureCookies marks the client cookie Secure (production, https).
	SecureCookies bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.ClientHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Health != nil {
		r.GET("/health", cfg.Health)
	}

	h := cfg.Handlers
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (identified by client cookie)
		// ============================================
		public := api.Group("")
		public.Use(middleware.ClientID(cfg.SecureCookies))
		{
			events := public.Group("/events")
			{
				events.GET("", h.Event.List)
				events.GET("/:id", h.Event.Get)

				interest := events.Group("/:id/interest")
				{
					interest.GET("", h.Interest.View)
					interest.POST("/open", h.Interest.Open)
					interest.PUT("/check-form", h.Interest.SetCheckForm)
					interest.POST("/check", h.Interest.SubmitCheck)
					interest.POST("/new-registration", h.Interest.ChooseNewRegistration)
					interest.POST("/apply", h.Interest.ApplyForMembership)
					interest.PUT("/registration-form", h.Interest.SetRegistrationForm)
					interest.POST("/registration", h.Interest.SubmitRegistration)
					interest.POST("/back", h.Interest.Back)
					interest.POST("/close", h.Interest.Close)
				}
			}

			public.GET("/news", h.News.List)
			public.GET("/news/:id", h.News.Get)
			public.POST("/contacts", h.Contact.Submit)

			public.POST("/memberships", h.Membership.Apply)
			public.GET("/memberships/me", h.Membership.Current)
			public.DELETE("/memberships/me", h.Membership.Forget)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", h.Auth.Logout)
		}

		// The websocket authenticates itself from ?token=.
		if cfg.WebSocket != nil {
			api.GET("/admin/ws", cfg.WebSocket)
		}

		// ============================================
		// Admin routes (require auth middleware)
		// ============================================
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg.Auth))
		{
			admin.GET("/me", h.Auth.Me)
			admin.GET("/stats", h.Dashboard.Stats)
			admin.POST("/digest", h.Dashboard.SendDigest)

			admin.GET("/memberships", h.Membership.List)
			admin.GET("/memberships/:id", h.Membership.Get)
			admin.DELETE("/memberships/:id", h.Membership.Delete)

			admin.GET("/interests", h.Membership.ListInterests)
			admin.DELETE("/interests/:id", h.Membership.DeleteInterest)

			admin.GET("/registrations", h.Membership.ListRegistrations)
			admin.DELETE("/registrations/:id", h.Membership.DeleteRegistration)

			admin.GET("/events", h.Event.ListAll)
			admin.POST("/events", h.Event.Create)
			admin.PUT("/events/:id", h.Event.Update)
			admin.DELETE("/events/:id", h.Event.Delete)

			admin.POST("/news", h.News.Create)
			admin.PUT("/news/:id", h.News.Update)
			admin.DELETE("/news/:id", h.News.Delete)

			admin.GET("/contacts", h.Contact.List)
			admin.PATCH("/contacts/:id/status", h.Contact.UpdateStatus)
			admin.DELETE("/contacts/:id", h.Contact.Delete)
		}
	}

	return r
}
