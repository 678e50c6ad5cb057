package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "salesdesk/api/swagger" // swagger docs
	"salesdesk/internal/config"
	"salesdesk/internal/dataset"
	"salesdesk/internal/database"
	"salesdesk/internal/handler"
	"salesdesk/internal/middleware"
	"salesdesk/internal/observability"
	"salesdesk/internal/query"
	"salesdesk/internal/repository"
	"salesdesk/internal/service"
	"salesdesk/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 15 * time.Second

// @title           Sales Desk API
// @version         1.0
// @description     Search, filter, sort and page retail sales records with whole-result summaries.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// backend is what the HTTP layer needs from the chosen data source.
type backend struct {
	sales   service.SalesService
	catalog service.CatalogLoader
	store   handler.Pinger
	close   func()
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wsHub := websocket.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()

	b, err := newBackend(ctx, cfg, logger, wsHub)
	if err != nil {
		return err
	}
	defer b.close()

	filterService := service.NewFilterOptionsService(b.catalog, wsHub, logger)
	salesHandler := handler.NewSalesHandler(b.sales, filterService, cfg.Paging, []byte(cfg.Security.JWTSecret))
	healthHandler := handler.NewHealthHandler(b.sales.Strategy(), b.store)

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}

	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		cors.New(corsConfig),
	)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws", websocket.Handler(wsHub, cfg.Security.AllowedOrigins, []byte(cfg.Security.JWTSecret)))
	healthHandler.RegisterRoutes(router.Group(""))

	api := router.Group("")
	api.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.Security), logger))
	salesHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "strategy", b.sales.Strategy())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newBackend picks the execution strategy from the configured data source. A
// database source is loaded from the CSV on first start and queried with
// pushdown; a csv source is scanned on every request.
func newBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger, publisher dataset.Publisher) (*backend, error) {
	if cfg.DataSource == config.SourceCSV {
		if _, err := os.Stat(cfg.Dataset.CSVPath); err != nil {
			logger.Warn("sales file not readable yet, requests will fail until it is", "path", cfg.Dataset.CSVPath, "error", err)
		}
		src := dataset.NewCSVSource(cfg.Dataset.CSVPath, logger)
		return &backend{
			sales:   service.NewScanService(src, logger),
			catalog: query.NewScanner(src),
			close:   func() {},
		}, nil
	}

	db, err := database.NewConnection(cfg.DataSource, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	repo := repository.NewSalesRepository(db)
	if cfg.Dataset.ImportOnStart {
		importer := dataset.NewImporter(repo, repository.NewTransactionManager(db), publisher, cfg.Dataset.BatchSize, logger)
		if _, err := importer.Import(ctx, cfg.Dataset.CSVPath); err != nil {
			// The API still serves whatever the store holds.
			logger.Error("initial import failed", "path", cfg.Dataset.CSVPath, "error", err)
		}
	}

	return &backend{
		sales:   service.NewPushdownService(repo, logger),
		catalog: repo,
		store:   sqlDB,
		close:   func() { _ = sqlDB.Close() },
	}, nil
}
