package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"mafia_webapp/internal/config"
	"mafia_webapp/internal/http/handlers"
	"mafia_webapp/internal/http/middleware"
	"mafia_webapp/internal/repository"
	"mafia_webapp/internal/service"
	"mafia_webapp/internal/ws"
)

// RegisterRoutes вешает REST-эндпоинты и ws-апгрейд на gin-роутер
func RegisterRoutes(r *gin.Engine, engine *service.SessionEngine, hub *ws.Hub, matchRepo *repository.MatchRepository, cfg *config.Config, version string) {
	h := handlers.NewHandler(engine, matchRepo, cfg.BotToken, version)

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.POST("/auth", middleware.RateLimit(10, time.Minute), h.Auth)
		api.GET("/rooms", middleware.RateLimit(60, time.Minute), h.Rooms)
		api.GET("/rooms/:code", middleware.RateLimit(60, time.Minute), h.RoomByCode)
		api.GET("/matches", middleware.RateLimit(60, time.Minute), h.Matches)
	}

	r.GET("/ws", ws.HandleWS(hub))
}
