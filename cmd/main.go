package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"taxdesk/internal/caching"
	"taxdesk/internal/config"
	"taxdesk/internal/events"
	"taxdesk/internal/handlers"
	"taxdesk/internal/jobs/background"
	"taxdesk/internal/middleware"
	"taxdesk/internal/repositories"
	"taxdesk/internal/services"
	"taxdesk/pkg/database"
	"taxdesk/pkg/linkbuilder"
	"taxdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.New(logger.Config{Env: cfg.Env, Level: os.Getenv("LOG_LEVEL")})

	pool, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}

	// Repositories and transaction runner
	repos := repositories.NewRepositories(pool)
	txRunner := repositories.NewTxRunner(pool)

	// Infrastructure services
	permissionCache := caching.NewRedisPermissionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	publisher := events.NewRedisPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	credentialSvc := services.NewCredentialService(cfg.JWTSecret, cfg.AccessTokenTTL)
	links := linkbuilder.New(cfg.BaseURL)

	archiveSvc, err := services.NewArchiveService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize archive service")
	}

	// Domain services
	permissionSvc := services.NewPermissionService(repos.UserRoles, repos.RolePermissions, repos.CompanyPermissions, permissionCache)
	planSvc := services.NewPlanService(txRunner, repos.Services, publisher)
	deletionSvc := services.NewTenantDeletionService(txRunner, repos, archiveSvc, publisher)
	invitationSvc := services.NewInvitationService(txRunner, repos, credentialSvc, links, publisher, cfg.InvitationTTL)
	authSvc := services.NewAuthService(repos, credentialSvc, cfg.AccessTokenTTL)

	// Background jobs
	scheduler, err := background.NewJobScheduler(invitationSvc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() { _ = scheduler.Stop() }()

	// HTTP surface
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())

	planHandlers := handlers.NewPlanHandlers(planSvc)
	tenantHandlers := handlers.NewTenantHandlers(deletionSvc)
	invitationHandlers := handlers.NewInvitationHandlers(invitationSvc)
	permissionHandlers := handlers.NewPermissionHandlers(permissionSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)

	rbac := middleware.NewRBACMiddleware(permissionSvc)
	auth := middleware.JWTMiddleware(credentialSvc)

	e.POST("/auth/login", authHandlers.Login)
	// Invitation acceptance is authenticated by token only
	e.POST("/invitations/accept", invitationHandlers.Accept)

	api := e.Group("", auth)
	api.POST("/auth/logout", authHandlers.Logout)
	api.GET("/plans", planHandlers.ListLevels)
	api.POST("/companies/:id/plan", planHandlers.ChangePlan, rbac.RequirePermission("Company.ManagePlan"))
	api.DELETE("/companies/:id", tenantHandlers.Delete, rbac.RequirePermission("Company.Delete"))
	api.GET("/companies/:id/deletion-analysis", tenantHandlers.Analyze, rbac.RequirePermission("Company.Delete"))
	api.POST("/companies/:id/invitations", invitationHandlers.Issue, rbac.RequirePermission("User.Invite"))
	api.GET("/companies/:id/invitations", invitationHandlers.ListPending, rbac.RequirePermission("User.Read"))
	api.POST("/invitations/cancel", invitationHandlers.Cancel, rbac.RequirePermission("User.Invite"))
	api.GET("/users/:id/permissions", permissionHandlers.Effective, rbac.RequirePermission("User.Read"))
	api.PUT("/users/:id/permissions/override", permissionHandlers.SetOverride, rbac.RequirePermission("User.ManagePermissions"))

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
