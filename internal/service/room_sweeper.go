package service

import (
	"context"
	"sync"
	"time"

	"mafia_webapp/internal/logger"
)

// RoomSweeper периодически удаляет лобби-комнаты, в которых давно ничего
// не происходит. Идущие матчи уборщик не трогает - у них есть таймеры.
type RoomSweeper struct {
	store    RoomStore
	engine   *SessionEngine
	maxAge   time.Duration
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

func NewRoomSweeper(store RoomStore, engine *SessionEngine, maxAge, interval time.Duration) *RoomSweeper {
	return &RoomSweeper{
		store:    store,
		engine:   engine,
		maxAge:   maxAge,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start запускает уборщик в фоновом режиме
func (s *RoomSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	logger.Info("запуск уборщика комнат", "max_age", s.maxAge, "interval", s.interval)

	// первоначальный проход
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			logger.Info("остановка уборщика комнат")
			return
		}
	}
}

// Stop останавливает уборщик
func (s *RoomSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		close(s.stop)
		s.running = false
	}
}

func (s *RoomSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.maxAge)
	rooms, err := s.store.FindAbandoned(ctx, cutoff)
	if err != nil {
		logger.Error("поиск заброшенных комнат не удался", "error", err)
		return
	}

	for _, room := range rooms {
		// удаление идет через движок, чтобы соблюсти дисциплину
		// блокировок и разослать room_closed
		if err := s.engine.CloseAbandoned(ctx, room.Code, cutoff); err != nil {
			logger.Warn("удаление заброшенной комнаты не удалось",
				"room", room.Code, "error", err)
		}
	}

	if len(rooms) > 0 {
		logger.Info("проход уборщика завершен", "checked", len(rooms))
	}
}
