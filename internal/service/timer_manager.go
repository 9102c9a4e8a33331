package service

import (
	"sync"
	"time"

	"mafia_webapp/internal/domain"
	"mafia_webapp/internal/logger"
)

// ExpireFunc вызывается при истечении дедлайна фазы. Обработчик обязан
// сам перечитать комнату и убедиться, что фаза и ход не изменились.
type ExpireFunc func(code string, phase domain.Phase, turn int)

type roomTimer struct {
	gen       uint64
	phase     domain.Phase
	turn      int
	startedAt time.Time
	endsAt    time.Time
	timer     *time.Timer
	stopTick  chan struct{}
}

// TimerManager держит не больше одного активного дедлайна на комнату.
// Номер поколения отсекает устаревшие срабатывания: таймер, отмененный
// или перезапущенный между планированием и вызовом callback'а, молча
// пропускается.
type TimerManager struct {
	mu       sync.Mutex
	timers   map[string]*roomTimer
	seq      uint64
	onExpire ExpireFunc
	bc       Broadcaster
	ticks    bool
}

func NewTimerManager(ticks bool) *TimerManager {
	return &TimerManager{
		timers: make(map[string]*roomTimer),
		ticks:  ticks,
	}
}

// SetExpireHandler задает обработчик истечения (движок сессий)
func (tm *TimerManager) SetExpireHandler(fn ExpireFunc) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.onExpire = fn
}

// SetBroadcaster включает рассылку посекундного отсчета подписчикам
func (tm *TimerManager) SetBroadcaster(bc Broadcaster) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.bc = bc
}

// Start планирует дедлайн для комнаты, снимая предыдущий, если он был
func (tm *TimerManager) Start(code string, phase domain.Phase, turn int, d time.Duration) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.clearLocked(code)

	tm.seq++
	rt := &roomTimer{
		gen:       tm.seq,
		phase:     phase,
		turn:      turn,
		startedAt: time.Now(),
		endsAt:    time.Now().Add(d),
	}
	gen := rt.gen
	rt.timer = time.AfterFunc(d, func() {
		tm.fire(code, gen)
	})

	if tm.ticks && tm.bc != nil {
		rt.stopTick = make(chan struct{})
		go tm.tickLoop(code, rt.endsAt, rt.stopTick)
	}

	tm.timers[code] = rt
}

// Restart - clear + start
func (tm *TimerManager) Restart(code string, phase domain.Phase, turn int, d time.Duration) {
	tm.Start(code, phase, turn, d)
}

// Clear снимает дедлайн комнаты; отсутствие активного таймера - no-op
func (tm *TimerManager) Clear(code string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.clearLocked(code)
}

func (tm *TimerManager) clearLocked(code string) {
	rt, ok := tm.timers[code]
	if !ok {
		return
	}
	rt.timer.Stop()
	if rt.stopTick != nil {
		close(rt.stopTick)
	}
	delete(tm.timers, code)
}

// Remaining возвращает оставшееся время или false, если таймера нет
func (tm *TimerManager) Remaining(code string) (time.Duration, bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	rt, ok := tm.timers[code]
	if !ok {
		return 0, false
	}
	left := time.Until(rt.endsAt)
	if left < 0 {
		left = 0
	}
	return left, true
}

// ForceExpire снимает дедлайн и синхронно прогоняет тот же обработчик,
// который вызвал бы планировщик. Возвращает false, если таймера не было.
// Естественное срабатывание, успевшее в тот же момент, отсечется
// поколением здесь либо проверкой фазы в обработчике - фаза не
// продвинется дважды.
func (tm *TimerManager) ForceExpire(code string) bool {
	tm.mu.Lock()
	rt, ok := tm.timers[code]
	if ok {
		tm.clearLocked(code)
	}
	fn := tm.onExpire
	tm.mu.Unlock()

	if !ok {
		return false
	}
	if fn != nil {
		fn(code, rt.phase, rt.turn)
	}
	return true
}

// fire - callback планировщика. Сверяет поколение: запись могла быть
// снята или перезапущена, пока callback ждал своей горутины.
func (tm *TimerManager) fire(code string, gen uint64) {
	tm.mu.Lock()
	rt, ok := tm.timers[code]
	if !ok || rt.gen != gen {
		tm.mu.Unlock()
		logger.Debug("устаревшее срабатывание таймера", "room", code, "gen", gen)
		return
	}
	tm.clearLocked(code)
	fn := tm.onExpire
	tm.mu.Unlock()

	if fn == nil {
		logger.Error("таймер сработал без обработчика истечения", "room", code)
		return
	}
	fn(code, rt.phase, rt.turn)
}

// tickLoop шлет подписчикам комнаты отсчет раз в секунду до дедлайна
func (tm *TimerManager) tickLoop(code string, endsAt time.Time, stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			left := time.Until(endsAt)
			if left <= 0 {
				return
			}
			tm.mu.Lock()
			bc := tm.bc
			tm.mu.Unlock()
			if bc != nil {
				bc.EmitToRoom(code, domain.EventTimerTick, map[string]any{
					"remaining_sec": int(left.Seconds() + 0.5),
				})
			}
		case <-stop:
			return
		}
	}
}
