package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/perlametro/users-service/docs"
	"github.com/perlametro/users-service/internal/api/handler"
	"github.com/perlametro/users-service/internal/api/middleware"
	"github.com/perlametro/users-service/internal/core/domain"
	"github.com/perlametro/users-service/internal/core/ports"
	"github.com/perlametro/users-service/internal/core/service"
	"github.com/perlametro/users-service/internal/infrastructure/config"
	mongodb "github.com/perlametro/users-service/internal/infrastructure/db/mongo"
	redisdb "github.com/perlametro/users-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit recorder is created in main together with its worker pool; all
// other dependencies are wired here.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit service.AuditRecorder, auditReader ports.AuditService, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("users"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	userCache := redisdb.NewUserCache(rdb, log)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, audit, log)
	userService := service.NewUserService(userRepo, userCache, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, auditReader)
	authenticated := middleware.Auth(tokenService)

	// --- Public routes ---
	e.POST("/users/login", authHandler.Login)
	e.POST("/users", userHandler.Create)

	// --- Protected routes ---
	users := e.Group("/users", authenticated)
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get, middleware.RBAC(domain.RoleAdmin, domain.RoleUser))
	users.PUT("/:id", userHandler.Update, middleware.RBAC(domain.RoleAdmin, domain.RoleUser))
	users.DELETE("/:id", userHandler.Delete, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id/audit", userHandler.Audit, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
