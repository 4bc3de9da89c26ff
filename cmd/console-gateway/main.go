package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/scrum-console-gateway/api/swagger"
	"github.com/noah-isme/scrum-console-gateway/internal/handler"
	"github.com/noah-isme/scrum-console-gateway/internal/middleware"
	"github.com/noah-isme/scrum-console-gateway/internal/service"
	"github.com/noah-isme/scrum-console-gateway/internal/session"
	"github.com/noah-isme/scrum-console-gateway/internal/upstream"
	"github.com/noah-isme/scrum-console-gateway/pkg/cache"
	"github.com/noah-isme/scrum-console-gateway/pkg/config"
	"github.com/noah-isme/scrum-console-gateway/pkg/logger"
	corsmiddleware "github.com/noah-isme/scrum-console-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/scrum-console-gateway/pkg/middleware/requestid"
)

// @title Scrum Console Gateway
// @version 1.0.0
// @description Admin console gateway for the scrum assessment service
// @BasePath /api/v1
// @schemes http

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

	var store session.TokenStore
	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		store = session.NewRedisStore(client)
	} else {
		store = session.NewMemoryStore()
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	client := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Observe: metricsSvc.ObserveUpstreamCall,
	}, logr)

	sessions := session.NewManager(store, client, logr, session.Config{
		KeyPrefix: cfg.Session.KeyPrefix,
		TTL:       cfg.Session.TTL,
		OnResume:  metricsSvc.RecordSessionResume,
	})

	validate := validator.New()

	authSvc := service.NewAuthService(sessions, client, validate, logr)
	userSvc := service.NewUserService(client, validate, logr)
	projectSvc := service.NewProjectService(client, validate, logr)
	sheetSvc := service.NewSheetService(client, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	projectHandler := handler.NewProjectHandler(projectSvc)
	sheetHandler := handler.NewSheetHandler(sheetSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	prefix := cfg.APIPrefix

	table := session.NewRouteTable(routeRules(prefix, cfg.Export.Enabled))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.Admission(sessions, table))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
		r.GET("/metrics/snapshot", metricsHandler.Snapshot)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(prefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/session", authHandler.Session)
		}

		api.GET("/user/profile", authHandler.Profile)

		admin := api.Group("/admin")
		{
			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Create)
			admin.GET("/users/:id", userHandler.Get)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)
			admin.PATCH("/users/:id/role", userHandler.ChangeRole)
			admin.GET("/moderators", userHandler.Moderators)

			admin.GET("/projects", projectHandler.List)
			admin.POST("/projects", projectHandler.Create)
			admin.GET("/projects/:id", projectHandler.Get)
			admin.PUT("/projects/:id", projectHandler.Update)
			admin.DELETE("/projects/:id", projectHandler.Delete)
			admin.GET("/projects/:id/detail", projectHandler.Detail)
			admin.GET("/projects/:id/calculate-scores", projectHandler.Calculate)

			admin.GET("/sheets", sheetHandler.List)
			admin.POST("/sheets", sheetHandler.Create)
			admin.GET("/sheets/available", sheetHandler.Available)
			admin.GET("/sheets/:id", sheetHandler.Get)
			admin.PUT("/sheets/:id", sheetHandler.Update)
			admin.DELETE("/sheets/:id", sheetHandler.Delete)

			if cfg.Export.Enabled {
				exportSvc := service.NewExportService(client, client, client, cfg.Export.MaxRows, logr)
				admin.GET("/export/:kind", handler.NewExportHandler(exportSvc).Export)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// routeRules is the single declarative map from route to required capability.
// Routes not listed are public.
func routeRules(prefix string, exportEnabled bool) []session.Rule {
	admin := func(method, path string) session.Rule {
		return session.Rule{Method: method, Path: prefix + "/admin" + path, Capability: session.CapabilityAdmin}
	}

	rules := []session.Rule{
		{Method: http.MethodPost, Path: prefix + "/auth/logout", Capability: session.CapabilityAuthenticated},
		{Method: http.MethodGet, Path: prefix + "/user/profile", Capability: session.CapabilityAuthenticated},

		admin(http.MethodGet, "/users"),
		admin(http.MethodPost, "/users"),
		admin(http.MethodGet, "/users/:id"),
		admin(http.MethodPut, "/users/:id"),
		admin(http.MethodDelete, "/users/:id"),
		admin(http.MethodPatch, "/users/:id/role"),
		admin(http.MethodGet, "/moderators"),

		admin(http.MethodGet, "/projects"),
		admin(http.MethodPost, "/projects"),
		admin(http.MethodGet, "/projects/:id"),
		admin(http.MethodPut, "/projects/:id"),
		admin(http.MethodDelete, "/projects/:id"),
		admin(http.MethodGet, "/projects/:id/detail"),
		admin(http.MethodGet, "/projects/:id/calculate-scores"),

		admin(http.MethodGet, "/sheets"),
		admin(http.MethodPost, "/sheets"),
		admin(http.MethodGet, "/sheets/available"),
		admin(http.MethodGet, "/sheets/:id"),
		admin(http.MethodPut, "/sheets/:id"),
		admin(http.MethodDelete, "/sheets/:id"),
	}

	if exportEnabled {
		rules = append(rules, admin(http.MethodGet, "/export/:kind"))
	}

	return rules
}
