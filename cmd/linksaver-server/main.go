package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpearce/linksaver/pkg/linksaver/auth"
	"github.com/mpearce/linksaver/pkg/linksaver/bookmarks"
	"github.com/mpearce/linksaver/pkg/linksaver/config"
	"github.com/mpearce/linksaver/pkg/linksaver/database"
	"github.com/mpearce/linksaver/pkg/linksaver/extract"
	"github.com/mpearce/linksaver/pkg/linksaver/logger"
	"github.com/mpearce/linksaver/pkg/linksaver/models"
)

// @title Linksaver API
// @version 1.0
// @description A bookmark-saving service with automatic title, favicon, and summary extraction.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	defer logg.Sync()

	if err := database.Connect(cfg.DB.Path); err != nil {
		logg.Fatal("failed to connect to database", logger.Error(err))
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		logg.Fatal("failed to run migrations", logger.Error(err))
	}
	logg.Info("database migrations completed")

	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	extractor := extract.New(extract.Config{
		Timeout:       cfg.Extract.Timeout(),
		ReaderBaseURL: cfg.Extract.ReaderBaseURL,
		UserAgent:     cfg.Extract.UserAgent,
	}, logg)

	router := setupRouter(extractor, logg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logg.Info("starting linksaver server", logger.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server failed", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server shutdown failed", logger.Error(err))
	}
	if err := database.Close(); err != nil {
		logg.Error("closing database failed", logger.Error(err))
	}
	logg.Info("stopped cleanly")
}

// setupRouter wires the HTTP surface: public auth and health routes,
// JWT-protected bookmark routes, and a recovery handler that reduces any
// panic to a generic 500 without leaking internals.
func setupRouter(extractor *extract.Extractor, logg logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logg.Error("unhandled panic", logger.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"service": "linksaver",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Bookmark routes (JWT required)
		store := bookmarks.NewStore(database.GetDB(), extractor)
		bookmarksHandler := bookmarks.NewHandler(store)
		bookmarksHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))
	}

	return router
}
