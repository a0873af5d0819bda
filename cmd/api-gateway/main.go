package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/acadrec-api/api/swagger"
	"github.com/noah-isme/acadrec-api/internal/handler"
	"github.com/noah-isme/acadrec-api/internal/middleware"
	"github.com/noah-isme/acadrec-api/internal/repository"
	"github.com/noah-isme/acadrec-api/internal/service"
	"github.com/noah-isme/acadrec-api/pkg/cache"
	"github.com/noah-isme/acadrec-api/pkg/config"
	"github.com/noah-isme/acadrec-api/pkg/database"
	"github.com/noah-isme/acadrec-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/acadrec-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/acadrec-api/pkg/middleware/requestid"
)

// @title Academic Records API
// @version 0.1.0
// @description Assessment result ingestion and grade computation service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, subject config cache disabled", "error", err)
		redisClient = nil
	}

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	courses := repository.NewCourseRepository(db)
	results := repository.NewResultRepository(db)
	subjectConfigs := repository.NewSubjectConfigRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(users, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	resolver := service.NewReferenceResolver(courses, students, logr)
	resultSvc := service.NewResultService(results, resolver, nil, logr, metricsSvc, cfg.Ingest.MaxBatchRows)
	configSvc := service.NewSubjectConfigService(subjectConfigs, cacheRepo, metricsSvc, nil, logr, cfg.Assessment.ConfigCacheTTL)
	internalSvc := service.NewInternalMarksService(results, configSvc, logr)
	rosterSvc := service.NewRosterService(students, courses, nil, logr, metricsSvc)
	exportSvc := service.NewExportService(results, students, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	resultHandler := handler.NewResultHandler(resultSvc, internalSvc)
	configHandler := handler.NewSubjectConfigHandler(configSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/results", resultHandler.List)
	api.GET("/results/grade-preview", resultHandler.PreviewGrade)
	api.GET("/students/:id/internal-score", resultHandler.InternalScore)
	api.GET("/students", rosterHandler.ListStudents)
	api.GET("/subject-configs", configHandler.List)
	api.GET("/subject-configs/:subject", configHandler.Get)
	if cfg.Exports.Enabled {
		api.GET("/students/:id/transcript", exportHandler.Transcript)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.POST("/results/bulk", resultHandler.IngestBatch)
	protected.PUT("/subject-configs/:subject", configHandler.Upsert)
	protected.POST("/students", rosterHandler.CreateStudent)
	protected.POST("/courses", rosterHandler.CreateCourse)
	protected.POST("/courses/:name/enrollments", rosterHandler.Enroll)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
