package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/internal/business"
	"github.com/digitales-2024/perucontrol-sub003/internal/certificates"
	"github.com/digitales-2024/perucontrol-sub003/internal/clients"
	"github.com/digitales-2024/perucontrol-sub003/internal/config"
	"github.com/digitales-2024/perucontrol-sub003/internal/database"
	"github.com/digitales-2024/perucontrol-sub003/internal/docgen"
	"github.com/digitales-2024/perucontrol-sub003/internal/projects"
	"github.com/digitales-2024/perucontrol-sub003/internal/purchaseorders"
	"github.com/digitales-2024/perucontrol-sub003/internal/quotations"
	"github.com/digitales-2024/perucontrol-sub003/internal/reports"
	"github.com/digitales-2024/perucontrol-sub003/internal/scheduler"
	"github.com/digitales-2024/perucontrol-sub003/internal/templates"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	var templateStore docgen.TemplateStore
	if cfg.Templates.Bucket != "" {
		s3Store, err := templates.NewS3Store(ctx, templates.S3Config{
			Region:    cfg.AWS.Region,
			Bucket:    cfg.Templates.Bucket,
			Prefix:    cfg.Templates.Prefix,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
		}, logger)
		if err != nil {
			logger.Fatal("failed to initialize template bucket", zap.Error(err))
		}
		templateStore = templates.NewCachedStore(s3Store)
	} else {
		templateStore = templates.NewDirStore(cfg.Templates.Dir)
	}

	converter := docgen.NewHTTPConverter(cfg.Converter.URL, cfg.Converter.Timeout, logger)

	// Repositories
	clientsRepo := clients.NewRepository(db)
	businessRepo := business.NewRepository(db)
	projectsRepo := projects.NewRepository(db)
	quotationsRepo := quotations.NewRepository(db)
	ordersRepo := purchaseorders.NewRepository(db)
	certificatesRepo := certificates.NewRepository(db)

	// Services
	clientsService := clients.NewService(clientsRepo, logger)
	businessService := business.NewService(businessRepo, logger)
	projectsService := projects.NewService(projectsRepo, logger)
	quotationsService := quotations.NewService(quotationsRepo, logger)
	ordersService := purchaseorders.NewService(ordersRepo, logger)
	certificatesService := certificates.NewService(certificatesRepo, projectsRepo, logger)
	reportsService := reports.NewService(projectsRepo, businessRepo, logger)
	docgenService := docgen.NewService(docgen.Dependencies{
		Templates:    templateStore,
		Converter:    converter,
		Profiles:     businessRepo,
		Certificates: certificatesRepo,
		Projects:     projectsRepo,
		Quotations:   quotationsRepo,
		Orders:       ordersRepo,
		Clients:      clientsRepo,
		Logger:       logger,
	})

	// Background jobs
	jobs := scheduler.New(projectsService, quotationsService, logger)
	if err := jobs.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer jobs.Stop()

	// Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	api := router.Group("/api/v1")
	{
		clients.NewHandler(clientsService, logger).RegisterRoutes(api)
		business.NewHandler(businessService, logger).RegisterRoutes(api)
		projects.NewHandler(projectsService, logger).RegisterRoutes(api)
		quotations.NewHandler(quotationsService, logger).RegisterRoutes(api)
		purchaseorders.NewHandler(ordersService, logger).RegisterRoutes(api)
		certificates.NewHandler(certificatesService, logger).RegisterRoutes(api)
		reports.NewHandler(reportsService, logger).RegisterRoutes(api)
		docgen.NewHandler(docgenService, logger).RegisterRoutes(api)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.Int("port", cfg.Server.Port))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
