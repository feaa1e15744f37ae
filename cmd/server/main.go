package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusops/tigerpatrol/internal/config"
	"github.com/campusops/tigerpatrol/internal/database"
	"github.com/campusops/tigerpatrol/internal/handler"
	"github.com/campusops/tigerpatrol/internal/middleware"
	"github.com/campusops/tigerpatrol/internal/models"
	"github.com/campusops/tigerpatrol/internal/notify"
	"github.com/campusops/tigerpatrol/internal/queue"
	"github.com/campusops/tigerpatrol/internal/repository"
	"github.com/campusops/tigerpatrol/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize New Relic (optional)
	var nrApp *newrelic.Application
	if cfg.NewRelicEnabled && cfg.NewRelicLicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
			newrelic.ConfigInfoLogger(os.Stdout),
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize New Relic: %v", err)
		} else if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		} else {
			log.Println("New Relic connected")
		}
	}

	// Initialize PostgreSQL
	db, err := database.NewPostgres(
		cfg.DatabaseURL,
		cfg.DBMaxConnections,
		cfg.DBMaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis
	redis, err := database.NewRedis(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()
	log.Println("Connected to Redis")

	// Notification queue
	var notifyQueue queue.Queue
	if cfg.QueueBackend == "memory" {
		notifyQueue = queue.NewInMemory(64)
	} else {
		notifyQueue = queue.NewRedisQueue(redis.Client, cfg.QueueKey)
	}
	dispatcher := notify.NewDispatcher(notifyQueue)

	// Initialize repositories
	rideRepo := repository.NewRideRepository(db.DB)
	accountRepo := repository.NewAccountRepository(db.DB)

	// Initialize services
	tokenTTL := time.Duration(cfg.JWTTTLMinutes) * time.Minute
	rideService := service.NewRideService(rideRepo, dispatcher)
	authService := service.NewAuthService(accountRepo, cfg.JWTSigningKey, cfg.JWTIssuer, tokenTTL)

	// Provision the bootstrap admin account
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("Failed to provision admin account: %v", err)
		}
		cancel()
	}

	// Initialize handlers
	rideHandler := handler.NewRideHandler(rideService)
	authHandler := handler.NewAuthHandler(authService)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// New Relic middleware
	if nrApp != nil {
		r.Use(middleware.NewRelicMiddleware(nrApp))
	}

	// Rate limiter (per IP)
	rateLimiter := middleware.NewRateLimiter(redis.Client, cfg.RateLimitPerMinute, time.Minute)
	r.Use(rateLimiter.Handler)

	// Idempotency middleware
	idempotencyMw := middleware.NewIdempotencyMiddleware(redis.Client)
	r.Use(idempotencyMw.Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := db.Health(ctx); err != nil {
			http.Error(w, "database unhealthy", http.StatusServiceUnavailable)
			return
		}

		if err := redis.Health(ctx); err != nil {
			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","services":{"database":"up","redis":"up"}}`))
	})

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		rideHandler.RegisterPublicRoutes(r)
		authHandler.RegisterRoutes(r)

		// Dashboard routes require an officer or admin session
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(cfg.JWTSigningKey, cfg.JWTIssuer, models.RoleOfficer, models.RoleAdmin))
			rideHandler.RegisterStaffRoutes(r)
		})
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Println("API endpoints:")
	log.Println("  POST /v1/rides              - Submit ride request")
	log.Println("  GET  /v1/rides              - List all rides (officer/admin)")
	log.Println("  GET  /v1/rides/{id}         - Get ride (officer/admin)")
	log.Println("  POST /v1/rides/{id}/status  - Update ride status (officer/admin)")
	log.Println("  POST /v1/auth/register      - Officer registration")
	log.Println("  POST /v1/auth/login         - Login")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
