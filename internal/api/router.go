package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinicware/clinic-backoffice/internal/api/handler"
	"github.com/clinicware/clinic-backoffice/internal/api/middleware"
	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
	"github.com/clinicware/clinic-backoffice/internal/core/service"
	mongodb "github.com/clinicware/clinic-backoffice/internal/infrastructure/db/mongo"
	redisdb "github.com/clinicware/clinic-backoffice/internal/infrastructure/db/redis"
	"github.com/clinicware/clinic-backoffice/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Every non-public route passes the request gate and then the route policy
// before its handler runs.
func NewRouter(db *mongo.Database, rdb *redis.Client, mailer ports.MailDispatcher, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	branches := mongodb.NewBranchRepository(db)
	items := mongodb.NewItemRepository(db)
	patients := mongodb.NewPatientRepository(db)

	// --- Core services ---
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)
	authService := service.NewAuthService(service.AuthServiceOptions{
		Users:        users,
		Hasher:       hasher,
		Tokens:       tokens,
		Mailer:       mailer,
		Limiter:      limiter,
		ResetTTL:     cfg.ResetTokenTTL,
		ResetBaseURL: cfg.ResetBaseURL,
		Logger:       log,
	})
	branchService := service.NewBranchService(branches)
	itemService := service.NewItemService(items)
	patientService := service.NewPatientService(patients)
	reportService := service.NewReportService(users, branches, items, patients)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(users, authService)
	branchHandler := handler.NewBranchHandler(branchService)
	itemHandler := handler.NewItemHandler(itemService)
	patientHandler := handler.NewPatientHandler(patientService)
	reportHandler := handler.NewReportHandler(reportService)

	// --- Gate and policy ---
	// The owner tier mirrors the back-office split: branch and inventory
	// management, the employee roster, account admin and reports. Everything
	// else protected falls back to "any authenticated role".
	policy := middleware.NewPolicy(
		middleware.Rule{Prefix: "/branches", Roles: []domain.Role{domain.RoleOwner}},
		middleware.Rule{Prefix: "/inventory", Roles: []domain.Role{domain.RoleOwner}},
		middleware.Rule{Prefix: "/employees/me", Roles: []domain.Role{domain.RoleOwner, domain.RoleEmployee}},
		middleware.Rule{Prefix: "/employees", Roles: []domain.Role{domain.RoleOwner}},
		middleware.Rule{Prefix: "/users", Roles: []domain.Role{domain.RoleOwner}},
		middleware.Rule{Prefix: "/reports", Roles: []domain.Role{domain.RoleOwner}},
	)
	e.Use(middleware.Gate(tokens))
	e.Use(policy.Middleware())

	// --- Public routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)
	e.POST("/api/forgot-password", authHandler.ForgotPassword)
	e.POST("/api/reset-password", authHandler.ResetPassword)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Shared tier (both roles) ---
	e.GET("/employees/me", userHandler.Me)
	e.GET("/items", itemHandler.List)
	e.POST("/patients", patientHandler.Create)
	e.GET("/patients", patientHandler.List)
	e.GET("/patients/:id", patientHandler.Get)
	e.PUT("/patients/:id", patientHandler.Update)
	e.DELETE("/patients/:id", patientHandler.Delete)

	// --- Owner tier ---
	e.POST("/branches", branchHandler.Create)
	e.GET("/branches", branchHandler.List)
	e.GET("/branches/:id", branchHandler.Get)
	e.PUT("/branches/:id", branchHandler.Update)
	e.DELETE("/branches/:id", branchHandler.Delete)

	e.POST("/inventory/items", itemHandler.Create)
	e.PUT("/inventory/items/:id", itemHandler.Update)
	e.DELETE("/inventory/items/:id", itemHandler.Delete)

	e.GET("/employees", userHandler.List)
	e.GET("/users", userHandler.List)
	e.GET("/users/:username", userHandler.Get)
	e.PUT("/users/:username/password", userHandler.ChangePassword)
	e.DELETE("/users/:username", userHandler.Delete)

	e.GET("/reports", reportHandler.Summary)

	return e
}
