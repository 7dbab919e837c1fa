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

	"github.com/sellz/sellz-backend/internal/api/handler"
	"github.com/sellz/sellz-backend/internal/api/middleware"
	"github.com/sellz/sellz-backend/internal/core/domain"
	"github.com/sellz/sellz-backend/internal/core/ports"
	"github.com/sellz/sellz-backend/internal/core/service"
	"github.com/sellz/sellz-backend/internal/infrastructure/config"
	mongodb "github.com/sellz/sellz-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/sellz/sellz-backend/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered.
// Collaborators with external configuration (blob store, email sender) are
// constructed in main and passed in; everything else is wired here.
func NewRouter(
	cfg *config.Config,
	log zerolog.Logger,
	db *mongo.Database,
	rdb *redis.Client,
	blobs ports.BlobStore,
	emailSender ports.EmailSender,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("sellz"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	throttle := redisdb.NewResetThrottle(rdb)
	hasher := service.NewPasswordHasher()
	tokens := service.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresHours)*time.Hour)
	table := domain.BuildPermissions()

	authService := service.NewAuthService(userRepo, hasher, tokens, blobs, emailSender, throttle, log)
	userService := service.NewUserService(userRepo, blobs, log)

	cookieTTL := time.Duration(cfg.JWT.CookieExpiresHours) * time.Hour
	authHandler := handler.NewAuthHandler(authService, cookieTTL, cfg.Production())
	userHandler := handler.NewUserHandler(userService)

	requireAuth := func(perms ...string) echo.MiddlewareFunc {
		return middleware.RequireAuth(tokens, userRepo, table, perms...)
	}

	// --- API v1 ---
	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signup", authHandler.Signup(domain.RoleUser))
	auth.POST("/admin/signup", authHandler.Signup(domain.RoleAdmin), requireAuth(domain.PermCreateAdmin))
	auth.POST("/forgotPassword", authHandler.ForgotPassword)
	auth.PATCH("/updatePassword", authHandler.UpdatePassword, requireAuth(domain.PermPatchUserDetails))

	users := v1.Group("/users")
	users.PATCH("/resetPassword/:token", authHandler.ResetPassword)
	// Public read on an otherwise-protected resource: the wildcard skips the
	// whole auth gate.
	users.GET("/:userId", userHandler.GetUser, requireAuth(domain.PermissionAny))
	users.PATCH("/:userId", userHandler.UpdateUser, requireAuth(domain.PermPatchUserDetails))
	users.PATCH("/:userId/profile-picture", userHandler.UpdateProfilePicture, requireAuth(domain.PermPatchUserDetails))
	users.DELETE("/:userId", userHandler.DeleteUser, requireAuth(domain.PermPatchUserDetails))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
