package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-authgate/authfront/internal/backend"
	"github.com/go-authgate/authfront/internal/config"
	"github.com/go-authgate/authfront/internal/handlers"
	"github.com/go-authgate/authfront/internal/metrics"
	"github.com/go-authgate/authfront/internal/middleware"
	"github.com/go-authgate/authfront/internal/services"
	"github.com/go-authgate/authfront/internal/shaping"
	"github.com/go-authgate/authfront/internal/store"
	"github.com/go-authgate/authfront/internal/version"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "server":
		runServer()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("Authentication gateway in front of a Keystone identity backend")
	fmt.Println("\nCommands:")
	fmt.Println("  server    Start the gateway server")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Audit store (optional; the gateway runs without one)
	var db *store.Store
	if cfg.AuditEnabled {
		var err error
		db, err = store.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("Failed to initialize audit database: %v", err)
		}
	}

	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}

	auditService := services.NewAuditService(db, cfg.AuditEnabled, cfg.AuditBufferSize)

	// Identity backend client and payload shaping
	keystoneClient, err := backend.NewKeystoneClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize identity backend client: %v", err)
	}
	shapingService := shaping.NewKeystoneService(cfg.DefaultDomain)

	tokenService := services.NewTokenService(keystoneClient, shapingService, prometheusMetrics)
	userService := services.NewUserService(keystoneClient, shapingService, cfg, prometheusMetrics)

	tokenHandler := handlers.NewTokenHandler(tokenService, auditService, cfg)
	userHandler := handlers.NewUserHandler(userService, auditService)

	setupGinMode()
	r := gin.New()
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.MetricsEnabled {
		log.Printf("Prometheus metrics enabled at /metrics")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	loginLimiter := setupLoginRateLimiter(cfg)

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimiter, tokenHandler.Login)
			auth.DELETE("/logout", tokenHandler.Logout)
			auth.HEAD("/tokens", tokenHandler.CheckToken)
		}

		users := v1.Group("/users")
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PATCH("/:id", userHandler.Modify)
			users.DELETE("/:id", userHandler.Delete)
			users.POST("/:id/password", userHandler.ModifyPassword)
			users.PUT("/:id/roles/default", userHandler.AssignDefaultRole)
		}
	}

	log.Printf("Auth gateway starting on %s", cfg.ServerAddr)
	log.Printf("Identity backend: %s", cfg.IdentityAPIURL)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	m := graceful.NewManager()

	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})

	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})

	m.AddShutdownJob(func() error {
		log.Println("Shutting down audit service...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := auditService.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down audit service: %v", err)
			return err
		}
		return nil
	})

	// Daily cleanup of expired audit logs
	if cfg.AuditEnabled && cfg.AuditRetention > 0 {
		m.AddRunningJob(func(ctx context.Context) error {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()

			cleanup := func() {
				if deleted, err := auditService.CleanupOldLogs(cfg.AuditRetention); err != nil {
					log.Printf("Failed to cleanup old audit logs: %v", err)
				} else if deleted > 0 {
					log.Printf("Cleaned up %d old audit logs", deleted)
				}
			}

			cleanup()
			for {
				select {
				case <-ticker.C:
					cleanup()
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	<-m.Done()
}

// setupLoginRateLimiter builds the throttle for the login endpoint. The
// gateway never locks accounts, so this is the only local brute-force
// defence. Returns a passthrough when disabled.
func setupLoginRateLimiter(cfg *config.Config) gin.HandlerFunc {
	if !cfg.RateLimitEnabled {
		return func(c *gin.Context) { c.Next() }
	}

	var limiter gin.HandlerFunc
	var err error

	switch cfg.RateLimitStore {
	case config.RateLimitStoreRedis:
		limiter, err = middleware.NewRedisRateLimiter(
			cfg.RateLimitPerMinute,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
		)
		if err == nil {
			log.Printf("Login rate limiting enabled (redis, %d/min)", cfg.RateLimitPerMinute)
		}
	default:
		limiter, err = middleware.NewMemoryRateLimiter(cfg.RateLimitPerMinute)
		if err == nil {
			log.Printf("Login rate limiting enabled (memory, %d/min)", cfg.RateLimitPerMinute)
		}
	}

	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	return limiter
}

func setupGinMode() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
