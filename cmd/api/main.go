package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"model-health-api/config"
	"model-health-api/handlers"
	"model-health-api/logger"
	"model-health-api/middleware"
	"model-health-api/services"
	"model-health-api/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Log

	// Redis is optional: without it the dashboard loses report caching and
	// live updates but keeps working.
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		zlog.Warn("redis unavailable, caching and live updates disabled", zap.Error(err))
	}
	defer cache.Close()

	client := telemetry.NewClient(cfg.Upstream, zlog)

	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "UP",
			"message": "Model Health API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	predictionHandler := handlers.NewPredictionHandler(client, cache, zlog)
	riskHandler := handlers.NewRiskHandler(client, cache, zlog)

	api := router.Group("/api/v1")
	{
		api.POST("/predict", predictionHandler.Predict)
		api.GET("/failure-risk", riskHandler.GetFailureRisk)
		api.GET("/models", handlers.GetModels)
	}
	router.GET("/ws/live", handlers.LiveWebSocket(cache, zlog))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("server listening",
			zap.String("addr", addr),
			zap.String("upstream", cfg.Upstream.BaseURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
