package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mafia_webapp/internal/domain"
	"mafia_webapp/internal/repository"
	"mafia_webapp/internal/service"
)

// Handler держит зависимости REST-эндпоинтов
type Handler struct {
	Engine    *service.SessionEngine
	MatchRepo *repository.MatchRepository
	BotToken  string
	Version   string
}

func NewHandler(engine *service.SessionEngine, matchRepo *repository.MatchRepository, botToken, version string) *Handler {
	return &Handler{Engine: engine, MatchRepo: matchRepo, BotToken: botToken, Version: version}
}

// Авторизация через Telegram WebApp init_data: проверяем подпись,
// выдаем JWT для REST и ws
func (h *Handler) Auth(c *gin.Context) {
	var req struct {
		InitData string `json:"init_data"`
	}
	if err := c.BindJSON(&req); err != nil || req.InitData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data обязательна"})
		return
	}

	values, ok := service.ValidateTelegramInitData(req.InitData, h.BotToken)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "неверная подпись init_data"})
		return
	}
	user, ok := service.ParseTelegramUser(values)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "данные пользователя не разобраны"})
		return
	}

	name := user.Username
	if name == "" {
		name = user.FirstName
	}

	token, err := service.IssueJWT(user.ID, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось выдать токен"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"id":    user.ID,
		"name":  name,
	})
}

// Список открытых комнат (карточки лобби)
func (h *Handler) Rooms(c *gin.Context) {
	list, err := h.Engine.RoomList(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": list})
}

// Публичное состояние одной комнаты (роли скрыты)
func (h *Handler) RoomByCode(c *gin.Context) {
	state, err := h.Engine.RoomState(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "комната не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Последние завершенные матчи; ?player=<id> фильтрует по участнику
func (h *Handler) Matches(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		list []*domain.MatchRecord
		err  error
	)
	if playerStr := c.Query("player"); playerStr != "" {
		playerID, perr := strconv.ParseInt(playerStr, 10, 64)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный player"})
			return
		}
		list, err = h.MatchRepo.ListByPlayer(ctx, playerID, 50)
	} else {
		list, err = h.MatchRepo.ListRecent(ctx, 50)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": list})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.Version})
}
