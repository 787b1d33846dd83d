package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pixelbook/database"
	"pixelbook/internal/cache"
	"pixelbook/internal/catalog/jikan"
	"pixelbook/internal/config"
	"pixelbook/internal/http-api/handler"
	"pixelbook/internal/http-api/middleware"
	"pixelbook/internal/http-api/repository"
	"pixelbook/internal/http-api/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// liveness checks use their own tiny pool, failure here is non-fatal
	healthPool, err := database.NewHealthPool(context.Background(), cfg, logger)
	if err != nil {
		logger.Warn("health pool unavailable", "error", err)
	} else {
		defer healthPool.Close()
	}

	// the popular feed cache is optional, nil disables it
	popularFeed, err := cache.NewPopularFeed(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		logger.Warn("popular feed cache unavailable", "error", err)
		popularFeed = nil
	}
	defer popularFeed.Close()

	// repositories
	userRepo := repository.NewUserRepository(db)
	mangaRepo := repository.NewMangaRepo(db)
	volumeRepo := repository.NewVolumeRepo(db)
	cartRepo := repository.NewShopCartRepo(db)
	shelfRepo := repository.NewBookshelfRepo(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	// services
	jikanClient := jikan.NewClientWithBaseURL(cfg.JikanAPIURL)
	catalogSvc := service.NewCatalogService(jikanClient, mangaRepo, volumeRepo)
	userSvc := service.NewUserService(userRepo)
	mangaSvc := service.NewMangaService(mangaRepo)
	volumeSvc := service.NewVolumeService(volumeRepo, mangaRepo)
	cartSvc := service.NewCartService(cartRepo, shelfRepo, volumeRepo, userRepo, catalogSvc)
	shelfSvc := service.NewBookshelfService(shelfRepo, volumeRepo, userRepo)
	authSvc := service.NewAuthService(userRepo, refreshRepo, cfg)

	// handlers
	catalogHandler := handler.NewCatalogHandler(catalogSvc, popularFeed)
	userHandler := handler.NewUserHandler(userSvc, cartSvc, shelfSvc)
	cartHandler := handler.NewCartHandler(cartSvc)
	mangaHandler := handler.NewMangaHandler(mangaSvc, volumeSvc)
	volumeHandler := handler.NewVolumeHandler(volumeSvc)
	authHandler := handler.NewAuthHandler(authSvc, cfg)
	healthHandler := handler.NewHealthHandler(healthPool)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", healthHandler.Check)

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))
	catalogHandler.RegisterRoutes(api.Group("/catalog"))
	mangaHandler.RegisterRoutes(api.Group("/mangas"))
	volumeHandler.RegisterRoutes(api.Group("/volumes"))

	// per-user collections and carts belong to accounts, a bearer token is
	// required there
	authRequired := middleware.AuthMiddleware(authSvc)
	users := api.Group("/users")
	users.Use(authRequired)
	userHandler.RegisterRoutes(users)
	carts := api.Group("/carts")
	carts.Use(authRequired)
	cartHandler.RegisterRoutes(carts)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("API server stopped")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
