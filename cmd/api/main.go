// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ekusa/ekusa-backend/internal/api"
	"github.com/ekusa/ekusa-backend/internal/api/handlers"
	"github.com/ekusa/ekusa-backend/internal/config"
	"github.com/ekusa/ekusa-backend/internal/cron"
	"github.com/ekusa/ekusa-backend/internal/db"
	"github.com/ekusa/ekusa-backend/internal/email"
	"github.com/ekusa/ekusa-backend/internal/identity"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/seed"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/ekusa/ekusa-backend/internal/socket"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL (pgxpool + sqlx)
	// ============================================
	pg, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer pg.Close()

	repos := repository.NewRepositories(pg.Pool, pg.SQL)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var (
		redisDB    *db.RedisDB
		cache      service.Cache
		identities identity.Store = identity.NewMemoryStore()
	)
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (saved memberships kept in memory)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			cache = redisDB
			identities = identity.NewRedisStore(redisDB.Client)
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize Email Queue
	// ============================================
	emailSvc := email.NewService(&email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
		UseTLS:   cfg.SMTPUseTLS,
	})
	if emailSvc.Configured() {
		log.Println("📧 Email service initialized")
	} else {
		log.Println("⚠️  Email not configured (SMTP_HOST not set)")
	}
	mailer := email.NewEmailQueue(emailSvc, 2)
	defer mailer.Stop()

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	defer hub.Stop()
	broadcaster := socket.NewBroadcaster(hub)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Identities:  identities,
		Cache:       cache,
		Mailer:      mailer,
		Broadcaster: broadcaster,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Seed Data
	// ============================================
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := seed.EnsureAdmin(seedCtx, repos, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("⚠️ %v", err)
	}
	if !cfg.IsProduction() {
		log.Println("🌱 Seeding development data...")
		seed.SeedData(seedCtx, repos)
	}
	cancelSeed()

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	scheduler := cron.NewScheduler(
		services.Interest,
		services.Auth,
		services.Dashboard,
		time.Duration(cfg.WorkflowIdleMinutes)*time.Minute,
	)
	scheduler.Start()
	defer scheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	wsHandler := socket.NewHandler(hub, services.Auth, cfg.CORSOrigins)

	r := api.NewRouter(api.RouterConfig{
		Handlers:      handlers.NewHandlers(services),
		Auth:          services.Auth,
		WebSocket:     wsHandler.HandleWebSocket,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.IsProduction(),
		Health: func(c *gin.Context) {
			database := "connected"
			if err := pg.Ping(c.Request.Context()); err != nil {
				database = "unreachable"
			}
			c.JSON(http.StatusOK, gin.H{
				"status":          "healthy",
				"timestamp":       time.Now(),
				"database":        database,
				"cache":           getCacheStatus(c.Request.Context(), redisDB),
				"websocket":       "active",
				"ws_clients":      hub.GetConnectedClientsCount(),
				"email":           getEmailStatus(emailSvc),
				"active_sessions": services.Interest.ActiveSessions(),
			})
		},
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(ctx context.Context, redisDB *db.RedisDB) string {
	if redisDB == nil {
		return "disabled"
	}
	if err := redisDB.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "connected"
}

func getEmailStatus(emailSvc *email.Service) string {
	if emailSvc.Configured() {
		return "configured"
	}
	return "disabled"
}
