package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/zkvote/voting-system/docs"
	"github.com/zkvote/voting-system/internal/api/handler"
	"github.com/zkvote/voting-system/internal/api/middleware"
	"github.com/zkvote/voting-system/internal/core/commitment"
	"github.com/zkvote/voting-system/internal/core/domain"
	"github.com/zkvote/voting-system/internal/core/service"
	"github.com/zkvote/voting-system/internal/infrastructure/config"
	mongodb "github.com/zkvote/voting-system/internal/infrastructure/db/mongo"
	redisdb "github.com/zkvote/voting-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, engine *commitment.Engine, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("zkvote"))

	limiter := redisdb.NewRateLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
	e.Use(middleware.RateLimit(limiter, log))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	electionRepo := mongodb.NewElectionRepository(db)
	voteRepo := mongodb.NewVoteRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	voteService := service.NewVoteService(voteRepo, electionRepo, engine, log)
	electionService := service.NewElectionService(electionRepo, voteRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	electionHandler := handler.NewElectionHandler(electionService, voteService)
	voteHandler := handler.NewVoteHandler(voteService)

	auth := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/profile", authHandler.Profile, auth)

	// --- Election registry ---
	e.POST("/api/elections", electionHandler.Create, auth, adminOnly)
	e.GET("/api/elections", electionHandler.List, auth)
	e.GET("/api/elections/:id", electionHandler.Get, auth)
	e.PUT("/api/elections/:id", electionHandler.Update, auth)
	e.DELETE("/api/elections/:id", electionHandler.Delete, auth)
	e.GET("/api/elections/:id/results", electionHandler.Results, auth)

	// --- Vote ledger ---
	e.POST("/api/votes", voteHandler.Cast, auth)
	e.GET("/api/votes/verify/:token", voteHandler.Verify) // public receipt check
	e.GET("/api/votes/status/:election_id", voteHandler.Status, auth)
	e.GET("/api/votes/election/:election_id", voteHandler.Receipts, auth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
