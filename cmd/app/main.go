package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mafia_webapp/internal/config"
	"mafia_webapp/internal/db"
	httpServer "mafia_webapp/internal/http"
	"mafia_webapp/internal/http/middleware"
	"mafia_webapp/internal/logger"
	"mafia_webapp/internal/repository"
	"mafia_webapp/internal/service"
	"mafia_webapp/internal/ws"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg := config.Load()

	// Инициализация структурированного логгера
	jsonLogs := os.Getenv("LOG_FORMAT") == "json"
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, jsonLogs)
	log := logger.Get()

	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	roomRepo := repository.NewRoomRepository(dbPool)
	matchRepo := repository.NewMatchRepository(dbPool)
	engine := service.NewSessionEngine(roomRepo, cfg)
	hub := ws.NewHub(engine)
	engine.SetBroadcaster(hub)
	engine.SetMatchLog(matchRepo)

	httpServer.RegisterRoutes(r, engine, hub, matchRepo, cfg, Version)

	// Матчи, шедшие до рестарта, получают таймеры обратно из
	// сохраненных дедлайнов
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	engine.RestoreTimers(startupCtx)
	startupCancel()

	sweeper := service.NewRoomSweeper(roomRepo, engine, cfg.AbandonedAfter, cfg.SweepInterval)
	go sweeper.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
