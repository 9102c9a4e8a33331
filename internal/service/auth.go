package service

import (
	"errors"
	"os"
	"time"

	"mafia_webapp/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT читает секрет подписи токенов из окружения
func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Warn("JWT_SECRET не задан, используется небезопасный секрет по умолчанию")
		secret = "dev-secret-change-me"
	}
	jwtSecret = []byte(secret)
}

type playerClaims struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// IssueJWT выдает токен с id игрока и отображаемым именем
func IssueJWT(playerID int64, name string) (string, error) {
	claims := playerClaims{
		PlayerID: playerID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT проверяет токен и возвращает id и имя игрока
func ParseJWT(tokenString string) (int64, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &playerClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("неожиданный метод подписи")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(*playerClaims)
	if !ok || !token.Valid || claims.PlayerID == 0 {
		return 0, "", errors.New("невалидный токен")
	}
	return claims.PlayerID, claims.Name, nil
}
