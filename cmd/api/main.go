package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lingora/lingora-backend/internal/config"
	"github.com/lingora/lingora-backend/internal/handler"
	"github.com/lingora/lingora-backend/internal/middleware"
	"github.com/lingora/lingora-backend/internal/migration"
	"github.com/lingora/lingora-backend/internal/repository"
	"github.com/lingora/lingora-backend/internal/routes"
	"github.com/lingora/lingora-backend/internal/service"
	"github.com/lingora/lingora-backend/pkg/cache"
	"github.com/lingora/lingora-backend/pkg/elasticsearch"
	"github.com/lingora/lingora-backend/pkg/jwt"
	"github.com/lingora/lingora-backend/pkg/logger"
	pkgredis "github.com/lingora/lingora-backend/pkg/redis"
	"github.com/lingora/lingora-backend/pkg/storage"
)

func main() {
	config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	logger.InitStructured(env)
	log := logger.GetLogger()

	cfg, err := config.Load(fmt.Sprintf("configs/config.%s.yaml", env))
	if err != nil {
		log.Fatal().Err(err).Msg("configuration load failed")
	}
	config.LogResolved(cfg)

	// Database. TranslateError turns driver duplicate-key errors into
	// gorm.ErrDuplicatedKey, which the version engine's retry depends on.
	gormCfg := &gorm.Config{TranslateError: true}
	if !cfg.IsDevelopment() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Redis is optional; the cache degrades to no-ops without it.
	var redisClient *redislib.Client
	if cfg.Redis.Host != "" {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, caching disabled")
			redisClient = nil
		}
	}
	cacheService := cache.NewService(redisClient)

	// Elasticsearch is optional; search falls back to the database.
	var esClient *elasticsearch.Client
	if cfg.Elasticsearch.Enabled {
		esClient, err = elasticsearch.NewClient(
			cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			log.Warn().Err(err).Msg("elasticsearch unavailable, database search fallback active")
			esClient = nil
		}
	}

	// Object storage is optional; media uploads fail without it.
	var s3Client *storage.S3Client
	if cfg.Storage.Enabled {
		s3Client, err = storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			log.Warn().Err(err).Msg("object storage unavailable, media uploads disabled")
			s3Client = nil
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories
	contentRepo := repository.NewContentRepository(db)
	translationRepo := repository.NewTranslationRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	tagRepo := repository.NewTagRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)
	userRepo := repository.NewUserRepository(db)
	txManager := repository.NewTxManager(db)

	// Services
	webhookService := service.NewWebhookService(webhookRepo)
	searchService := service.NewSearchService(esClient, db)
	if err := searchService.EnsureIndex(context.Background()); err != nil {
		log.Warn().Err(err).Msg("search index setup failed")
	}
	translationService := service.NewTranslationService(
		contentRepo, translationRepo, versionRepo, txManager, cacheService, webhookService, searchService)
	contentService := service.NewContentService(
		contentRepo, translationRepo, versionRepo, tagRepo, mediaRepo, txManager,
		cacheService, webhookService, searchService)
	tagService := service.NewTagService(tagRepo, cacheService)
	mediaService := service.NewMediaService(contentRepo, mediaRepo, txManager, s3Client, webhookService)
	uploadService := service.NewUploadService(s3Client)
	authService := service.NewAuthService(userRepo, jwtManager)

	// Router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	corsCfg := cors.DefaultConfig()
	if cfg.CORS.AllowOrigins == "" || cfg.CORS.AllowOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CORS.AllowOrigins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		status["cache"] = cacheService.IsAvailable()
		c.JSON(http.StatusOK, status)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Register(r, &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Content:     handler.NewContentHandler(contentService),
		Translation: handler.NewTranslationHandler(translationService),
		Tag:         handler.NewTagHandler(tagService),
		Media:       handler.NewMediaHandler(mediaService),
		Search:      handler.NewSearchHandler(searchService),
		Webhook:     handler.NewWebhookHandler(webhookService),
		Upload:      handler.NewUploadHandler(uploadService),
	}, jwtManager, cfg.IsReadOnly())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info().Msg("server stopped")
}
