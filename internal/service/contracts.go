package service

import (
	"context"
	"time"

	"mafia_webapp/internal/domain"
)

// RoomStore - узкий контракт хранилища комнат. "Не найдено" и "конфликт
// версий" для вызывающих - ожидаемые исходы, не сбои.
type RoomStore interface {
	FindByID(ctx context.Context, code string) (*domain.Room, error)
	FindByMember(ctx context.Context, playerID int64) ([]*domain.Room, error)
	ListOpen(ctx context.Context) ([]*domain.Room, error)
	ListActive(ctx context.Context) ([]*domain.Room, error)
	FindAbandoned(ctx context.Context, cutoff time.Time) ([]*domain.Room, error)
	Insert(ctx context.Context, room *domain.Room) error
	Save(ctx context.Context, room *domain.Room) error
	DeleteByID(ctx context.Context, code string) error
}

// Broadcaster - пуш-транспорт до подписчиков. Fire-and-forget: движок
// не ждет доставки и не читает результат.
type Broadcaster interface {
	EmitToRoom(code string, event string, payload any)
	EmitToPlayer(playerID int64, event string, payload any)
	EmitGlobal(event string, payload any)
}

// MatchLog пишет итоги завершенных матчей. Необязательная зависимость:
// движок работает и без истории.
type MatchLog interface {
	Record(ctx context.Context, rec *domain.MatchRecord) error
}
