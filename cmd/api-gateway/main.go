package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/zafarh/dsj-hrms-api/api/swagger"
	"github.com/zafarh/dsj-hrms-api/internal/handler"
	"github.com/zafarh/dsj-hrms-api/internal/middleware"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/repository"
	"github.com/zafarh/dsj-hrms-api/internal/service"
	"github.com/zafarh/dsj-hrms-api/pkg/cache"
	"github.com/zafarh/dsj-hrms-api/pkg/config"
	"github.com/zafarh/dsj-hrms-api/pkg/database"
	"github.com/zafarh/dsj-hrms-api/pkg/jobs"
	"github.com/zafarh/dsj-hrms-api/pkg/logger"
	corsmiddleware "github.com/zafarh/dsj-hrms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/zafarh/dsj-hrms-api/pkg/middleware/requestid"
	"github.com/zafarh/dsj-hrms-api/pkg/storage"
)

// @title DSJ HRMS API
// @version 1.0.0
// @description Personnel records and employment-timeline consistency engine for district judiciary staff
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	reportRepo := repository.NewReportRepository(db)

	validate := validator.New()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.EmployeeTTL, logr, true)
	}

	// Services.
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)

	auditSvc := service.NewAuditService(userRepo, logr)
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	employeeSvc := service.NewEmployeeService(employeeRepo, cacheSvc, validate, logr, metricsSvc, service.EmployeeServiceConfig{
		CacheEnabled: cfg.Cache.Enabled,
		CacheTTL:     cfg.Cache.EmployeeTTL,
	})
	lookupSvc := service.NewLookupService(lookupRepo, cacheSvc, logr)
	lifecycleSvc := service.NewLifecycleService(employeeRepo, lookupRepo, auditSvc, logr)

	// Export pipeline: local file store behind HMAC-signed download tokens,
	// rendered by a worker pool fed from the report queue.
	store, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.JWT.Secret, cfg.Storage.SignedURLTTL)
	exportSvc := service.NewExportService(employeeRepo, store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Report.ResultTTL,
	}, logr, nil, nil)

	reportWorker := service.NewReportWorker(reportRepo, exportSvc, cfg.Report.MaxRetries, logr, metricsSvc)
	reportQueue := jobs.NewQueue("reports", reportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Report.Workers,
		MaxRetries: cfg.Report.MaxRetries,
		Logger:     logr,
	})
	reportQueue.Start(ctx)
	defer reportQueue.Stop()

	reportSvc := service.NewReportService(reportRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Report.ResultTTL,
		CleanupInterval: cfg.Report.CleanupInterval,
		MaxRetries:      cfg.Report.MaxRetries,
	})
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc, auditSvc)
	lifecycleHandler := handler.NewLifecycleHandler(lifecycleSvc)
	lookupHandler := handler.NewLookupHandler(lookupSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.Audit(userRepo, models.AuditActionLogin, "auth"), authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)

		authed := auth.Group("", middleware.JWT(authSvc))
		authed.POST("/logout", middleware.Audit(userRepo, models.AuditActionLogout, "auth"), authHandler.Logout)
		authed.POST("/change-password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	// Download tokens are self-authenticating; everything else requires a JWT.
	api.GET("/reports/download/:token", reportHandler.Download)

	protected := api.Group("", middleware.JWT(authSvc))

	users := protected.Group("/users", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	readers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleRegistrar, models.RoleViewer)
	writers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleRegistrar)

	employees := protected.Group("/employees")
	{
		employees.GET("", readers, employeeHandler.List)
		employees.GET("/:id", readers, employeeHandler.Get)
		employees.POST("", writers, employeeHandler.Create)
		employees.PUT("/:id", writers, employeeHandler.Update)
		employees.DELETE("/:id", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin), employeeHandler.Deactivate)

		employees.GET("/:id/history", readers, employeeHandler.History)
		employees.PUT("/:id/history", writers, employeeHandler.ReplaceHistory)
		employees.POST("/:id/history/validate", writers, employeeHandler.ValidateHistory)

		if cfg.Lifecycle.Enabled {
			employees.POST("/:id/transfer", writers, lifecycleHandler.Transfer)
			employees.POST("/:id/rejoin", writers, lifecycleHandler.Rejoin)
			employees.GET("/:id/rejoin/preview", readers, lifecycleHandler.RejoinPreview)
			employees.POST("/:id/succession", writers, lifecycleHandler.Succession)
		}
	}

	lookups := protected.Group("/lookups", readers)
	{
		lookups.GET("/designations", lookupHandler.Designations)
		lookups.GET("/posting-categories", lookupHandler.PostingCategories)
	}

	reports := protected.Group("/reports", readers)
	{
		reports.POST("", reportHandler.Create)
		reports.GET("/:id", reportHandler.Status)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
