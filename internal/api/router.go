package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streetmuse/freelance-platform/internal/api/handler"
	"github.com/streetmuse/freelance-platform/internal/api/middleware"
	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/service"
	mongodb "github.com/streetmuse/freelance-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/streetmuse/freelance-platform/internal/infrastructure/db/redis"
	"github.com/streetmuse/freelance-platform/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(client *mongo.Client, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	jobRepo := mongodb.NewJobRepository(db)
	proposalRepo := mongodb.NewProposalRepository(db)
	txRunner := mongodb.NewTxRunner(client)
	guard := redisdb.NewSubmissionGuard(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo, log)
	jobService := service.NewJobService(jobRepo, proposalRepo, txRunner, log)
	proposalService := service.NewProposalService(proposalRepo, jobRepo, txRunner, guard, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	jobHandler := handler.NewJobHandler(jobService)
	proposalHandler := handler.NewProposalHandler(proposalService)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", authMiddleware)

	v1.GET("/users", userHandler.List, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/users/:id", userHandler.Get)

	v1.GET("/jobs", jobHandler.List)
	v1.GET("/jobs/:id", jobHandler.Get)
	v1.POST("/jobs", jobHandler.Create, middleware.RBAC(domain.RoleClient))
	v1.PUT("/jobs/:id", jobHandler.Update, middleware.RBAC(domain.RoleClient, domain.RoleAdmin))
	v1.DELETE("/jobs/:id", jobHandler.Delete, middleware.RBAC(domain.RoleClient, domain.RoleAdmin))

	v1.GET("/proposals", proposalHandler.List)
	v1.POST("/proposals", proposalHandler.Create, middleware.RBAC(domain.RoleFreelancer))
	v1.PUT("/proposals/:id/status", proposalHandler.SetStatus, middleware.RBAC(domain.RoleClient, domain.RoleAdmin))
	v1.POST("/proposals/:id/accept", proposalHandler.Accept, middleware.RBAC(domain.RoleClient, domain.RoleAdmin))

	return e
}
